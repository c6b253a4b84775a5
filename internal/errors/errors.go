// Package errors defines the SyntaxError/CompilationError/EncodingError/
// IOError taxonomy the CLI uses to pick an exit code, and formats
// CompilerError with one line of source context and a caret pointing at
// the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/Tom-Willemsen/splbytecode/internal/lexer"
)

// contextLines is how many source lines are shown on either side of the
// offending line. The compiler reports only the first error it meets and
// stops, so there is never more than one of these to render per run.
const contextLines = 1

// CompilerError represents a single compilation error with position and context.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// NewCompilerError creates a new compiler error.
func NewCompilerError(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// Error renders the file/position header, up to contextLines of source on
// either side of the offending line with a caret under the column, and
// the message.
func (e *CompilerError) Error() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", e.Pos.Line, e.Pos.Column))
	}

	lines, startLine := e.sourceContext()
	for i, line := range lines {
		currentLine := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", currentLine)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		if currentLine == e.Pos.Line {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			sb.WriteString("^\n")
		}
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// sourceContext returns the source lines spanning contextLines before and
// after e.Pos.Line (clamped to the source's bounds) and the 1-based line
// number the first returned line corresponds to.
func (e *CompilerError) sourceContext() ([]string, int) {
	if e.Source == "" {
		return nil, 0
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return nil, 0
	}

	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	return lines[start-1 : end], start
}
