package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidBaud indicates a rate outside the baud table.
	ErrInvalidBaud = errors.New("invalid baud rate")

	// ErrInvalidColour indicates a colour index outside the palette or a
	// malformed palette entry.
	ErrInvalidColour = errors.New("invalid colour")

	// ErrInvalidPort indicates an empty port path.
	ErrInvalidPort = errors.New("invalid serial port")

	// ErrInvalidEnv indicates an environment override that does not parse.
	ErrInvalidEnv = errors.New("invalid environment override")
)

// ParseError represents an error while parsing the settings file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Line and Column locate the error when known.
	Line   int
	Column int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
