package errors

import (
	"fmt"

	"github.com/Tom-Willemsen/splbytecode/internal/lexer"
)

// ExitCoder is implemented by every error kind the compiler can surface at
// the top level, so the CLI can pick an exit code without re-deriving the
// taxonomy from a type switch on concrete types.
type ExitCoder interface {
	error
	ExitCode() int
}

// SyntaxError reports a parser failure: an unexpected token, an undeclared
// or redeclared character, or an illegal stage transition. It carries
// source position so the caller can render a caret under the offending
// text.
type SyntaxError struct {
	*CompilerError
}

// NewSyntaxError builds a SyntaxError at pos with source context attached
// for formatting.
func NewSyntaxError(pos lexer.Position, message, source, file string) *SyntaxError {
	return &SyntaxError{NewCompilerError(pos, message, source, file)}
}

func (e *SyntaxError) Error() string {
	return "SyntaxError: " + e.CompilerError.Error()
}

// ExitCode is 1, per the compiler's CLI contract.
func (e *SyntaxError) ExitCode() int { return 1 }

// CompilationError reports a builder/resolver failure: an unknown IR
// operator, an unresolved jump target, or invalid class state at build
// time.
type CompilationError struct {
	Message string
}

func NewCompilationError(format string, args ...any) *CompilationError {
	return &CompilationError{Message: fmt.Sprintf(format, args...)}
}

func (e *CompilationError) Error() string {
	return "CompilationError: " + e.Message
}

// ExitCode is 2, per the compiler's CLI contract.
func (e *CompilationError) ExitCode() int { return 2 }

// EncodingError reports a binary emitter failure: a constant pool Utf8
// entry containing a forbidden byte.
type EncodingError struct {
	Message string
}

func NewEncodingError(format string, args ...any) *EncodingError {
	return &EncodingError{Message: fmt.Sprintf(format, args...)}
}

func (e *EncodingError) Error() string {
	return "EncodingError: " + e.Message
}

// ExitCode is 3 ("other error"), per the compiler's CLI contract.
func (e *EncodingError) ExitCode() int { return 3 }

// IOError reports that the input file could not be read or the output
// file could not be written.
type IOError struct {
	Message string
}

func NewIOError(format string, args ...any) *IOError {
	return &IOError{Message: fmt.Sprintf(format, args...)}
}

func (e *IOError) Error() string {
	return "IOError: " + e.Message
}

// ExitCode is 3 ("other error"), per the compiler's CLI contract.
func (e *IOError) ExitCode() int { return 3 }
