// Package cmd wires the cobra CLI surface to the compiler pipeline in
// compile.go.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tom-Willemsen/splbytecode/internal/errors"
)

var flags options

var rootCmd = &cobra.Command{
	Use:   "splc [file]",
	Short: "Compile a Shakespeare Programming Language play into a JVM class file",
	Long: `splc reads a Shakespeare Programming Language play and emits a
JVM class file (or, with --jar, a runnable JAR) that performs the play's
variable assignments, comparisons, and stage-directed control flow as
bytecode.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, args []string) error {
		return compileFile(args[0], flags)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory to write the class (or jar) into (default: ./bin)")
	rootCmd.Flags().StringVar(&flags.className, "cls-name", "SplProgram", "name of the generated class")
	rootCmd.Flags().Uint16Var(&flags.majorVersion, "cls-maj-version", 50, "class file major version")
	rootCmd.Flags().Uint16Var(&flags.minorVersion, "cls-min-version", 0, "class file minor version")
	rootCmd.Flags().BoolVar(&flags.asJar, "jar", false, "package the class file as a runnable jar")
}

// Execute runs the root command, exiting the process with the compiler's
// contracted exit code (0 success; 1 syntax error; 2 compilation error;
// 3 other error) on failure. Errors are printed as "<kind>: <message>",
// matching the ExitCoder taxonomy in internal/errors.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err.Error())
	if coder, ok := err.(errors.ExitCoder); ok {
		os.Exit(coder.ExitCode())
	}
	os.Exit(3)
}
