package parser

import (
	"fmt"
)

// Position is a location within a source file.
type Position struct {
	Filename string
	Line     int // 1-indexed
	Column   int // 1-indexed
}

// ParseError represents a syntax error during parsing.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d, column %d", e.Pos.Line, e.Pos.Column)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *ParseError) GetPosition() Position {
	return e.Pos
}

// newParseError creates a parse error at the given token.
func newParseError(filename string, tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Pos: Position{
			Filename: filename,
			Line:     tok.Line,
			Column:   tok.Column,
		},
		Message: fmt.Sprintf(format, args...),
	}
}
