package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Tom-Willemsen/splbytecode/internal/bytecode"
	"github.com/Tom-Willemsen/splbytecode/internal/errors"
	"github.com/Tom-Willemsen/splbytecode/internal/ir"
	"github.com/Tom-Willemsen/splbytecode/internal/jar"
	"github.com/Tom-Willemsen/splbytecode/internal/lexer"
	"github.com/Tom-Willemsen/splbytecode/internal/parser"
)

// options configures one compilation run. It mirrors the CLI's flags
// directly so the pipeline below can be exercised without cobra.
type options struct {
	outputDir    string
	className    string
	majorVersion uint16
	minorVersion uint16
	asJar        bool
}

// compileFile runs the full pipeline - lex, parse, flatten, build, emit,
// optionally package as a jar - and writes the result under
// opts.outputDir. It returns one of the four ExitCoder error kinds on
// failure, never a bare error, so the caller can pick an exit code
// without re-deriving the taxonomy.
func compileFile(inputPath string, opts options) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.NewIOError("could not read %s: %s", inputPath, err)
	}
	source := string(content)

	lex, err := lexer.New(source)
	if err != nil {
		return errors.NewIOError("could not load word lists: %s", err)
	}

	tree, err := parser.New(lex, source, inputPath).Parse()
	if err != nil {
		return err
	}

	flat := ir.Flatten(tree)

	class, err := bytecode.NewBuilder(opts.className).Build(flat, opts.minorVersion, opts.majorVersion)
	if err != nil {
		return err
	}

	var classBuf strings.Builder
	if err := bytecode.NewSerializer().Emit(class, &classBuf); err != nil {
		return err
	}
	classBytes := []byte(classBuf.String())

	dir := opts.outputDir
	if dir == "" {
		dir = filepath.Join(".", "bin")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError("could not create output directory %s: %s", dir, err)
	}

	name := opts.className + ".class"
	write := func(w *os.File) error {
		_, err := w.Write(classBytes)
		return err
	}
	if opts.asJar {
		name = opts.className + ".jar"
		write = func(w *os.File) error { return jar.Write(w, opts.className, classBytes) }
	}

	outPath := filepath.Join(dir, name)
	if err := writeAtomically(outPath, write); err != nil {
		return errors.NewIOError("could not write %s: %s", outPath, err)
	}
	return nil
}

// writeAtomically writes via a temporary file in the same directory, then
// renames it into place, so a failed write never leaves a partial output
// file at outPath.
func writeAtomically(outPath string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".splc-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, outPath)
}
