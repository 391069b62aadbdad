// Package parser provides log file reading and parsing functionality.
package parser

import (
	"errors"
	"fmt"
)

// Record is a successfully parsed log line.
type Record struct {
	// Timestamp is the date and time at the start of the line.
	Timestamp Timestamp `json:"timestamp"`

	// Severity is the bracketed log level.
	Severity Severity `json:"level"`

	// Component is the name before the first colon. It may be empty.
	Component string `json:"component"`

	// Message is the rest of the line, whitespace collapsed to single spaces.
	Message string `json:"message"`

	// Source is the file path this line came from.
	Source string `json:"source"`

	// Line is the 1-based line number in the source file.
	Line int `json:"line"`
}

// LogLine is a raw log line before parsing.
type LogLine struct {
	// Content is the raw line text.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// TooLong is set when the line exceeded MaxLineSize. Content is empty.
	TooLong bool
}

// Line grammar errors. Every ParseError wraps exactly one of these.
var (
	ErrEmptyLine          = errors.New("empty line")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrMalformedLevel     = errors.New("malformed log level")
	ErrMalformedComponent = errors.New("malformed component")
	ErrEmptyMessage       = errors.New("empty message")
	ErrLineTooLong        = errors.New("line too long")
)

// ParseError describes a line that could not be parsed.
type ParseError struct {
	// Source is the file path of the line.
	Source string `json:"source"`

	// Line is the 1-based line number.
	Line int `json:"line"`

	// Text is the trimmed line content.
	Text string `json:"text"`

	// Reason is a human-readable description of the failure.
	Reason string `json:"reason"`

	// Err is the underlying cause.
	Err error `json:"-"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Kind returns a stable snake_case label for the cause of the error.
func (e *ParseError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrEmptyLine):
		return "empty_line"
	case errors.Is(e.Err, ErrMissingField):
		return "missing_field"
	case errors.Is(e.Err, ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(e.Err, ErrMalformedLevel):
		return "malformed_level"
	case errors.Is(e.Err, ErrInvalidSeverity):
		return "invalid_severity"
	case errors.Is(e.Err, ErrMalformedComponent):
		return "malformed_component"
	case errors.Is(e.Err, ErrEmptyMessage):
		return "empty_message"
	case errors.Is(e.Err, ErrLineTooLong):
		return "line_too_long"
	default:
		return "unknown"
	}
}
