// Command splc compiles a Shakespeare Programming Language play into a
// JVM class file.
package main

import "github.com/Tom-Willemsen/splbytecode/cmd/splc/cmd"

func main() {
	cmd.Execute()
}
