package parser

import (
	"fmt"
	"strings"
)

// ParseLine parses one log line of the form
//
//	<date> <time> [<LEVEL>] <component>: <message...>
//
// Whitespace between tokens may be any run of spaces or tabs. On failure the
// returned error is a *ParseError and the Record is the zero value.
func ParseLine(line, source string, lineNum int) (Record, error) {
	line = strings.TrimSpace(line)

	fail := func(err error) (Record, error) {
		return Record{}, &ParseError{
			Source: source,
			Line:   lineNum,
			Text:   line,
			Reason: err.Error(),
			Err:    err,
		}
	}

	if line == "" {
		return fail(ErrEmptyLine)
	}

	tokens := strings.Fields(line)
	missing := func(field string) (Record, error) {
		return fail(fmt.Errorf("%w: %s", ErrMissingField, field))
	}

	// Timestamp
	if len(tokens) < 1 {
		return missing("date")
	}
	if len(tokens) < 2 {
		return missing("time")
	}
	ts, err := ParseTimestamp(tokens[0] + " " + tokens[1])
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrInvalidTimestamp, err))
	}

	// Level
	if len(tokens) < 3 {
		return missing("log level")
	}
	level := tokens[2]
	if len(level) < 2 || !strings.HasPrefix(level, "[") || !strings.HasSuffix(level, "]") {
		return fail(fmt.Errorf("%w: must be in [LEVEL] format, got %q", ErrMalformedLevel, level))
	}
	severity, err := ParseSeverity(level[1 : len(level)-1])
	if err != nil {
		return fail(err)
	}

	// Component
	if len(tokens) < 4 {
		return missing("component")
	}
	component, ok := strings.CutSuffix(tokens[3], ":")
	if !ok {
		return fail(fmt.Errorf("%w: must end with ':', got %q", ErrMalformedComponent, tokens[3]))
	}

	// Message
	if len(tokens) < 5 {
		return missing("message")
	}
	message := strings.Join(tokens[4:], " ")
	if strings.TrimSpace(message) == "" {
		return fail(ErrEmptyMessage)
	}

	return Record{
		Timestamp: ts,
		Severity:  severity,
		Component: component,
		Message:   message,
		Source:    source,
		Line:      lineNum,
	}, nil
}

// ParseLogLine parses a line produced by a LineSource. Lines that were too
// long to keep fail with ErrLineTooLong.
func ParseLogLine(l *LogLine) (Record, error) {
	if l.TooLong {
		err := fmt.Errorf("%w: exceeds %d bytes", ErrLineTooLong, MaxLineSize)
		return Record{}, &ParseError{
			Source: l.Source,
			Line:   l.LineNum,
			Reason: err.Error(),
			Err:    err,
		}
	}
	return ParseLine(l.Content, l.Source, l.LineNum)
}
