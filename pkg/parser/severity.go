package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSeverity is matched by every SeverityError.
var ErrInvalidSeverity = errors.New("invalid log level")

// SeverityError reports an unrecognized severity token.
type SeverityError struct {
	Token string
}

func (e *SeverityError) Error() string {
	return fmt.Sprintf("log level %q is not one of trace, debug, info, warn, error, fatal", e.Token)
}

// Is lets errors.Is match any SeverityError against ErrInvalidSeverity.
func (e *SeverityError) Is(target error) bool {
	return target == ErrInvalidSeverity
}

// Severity is the level of a log entry. The zero value is invalid.
type Severity uint8

const (
	Trace Severity = 1
	Debug Severity = 2
	Info  Severity = 3
	Warn  Severity = 4
	Error Severity = 5
	Fatal Severity = 6
)

// Severities returns all severities from least to most severe.
func Severities() []Severity {
	return []Severity{Trace, Debug, Info, Warn, Error, Fatal}
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	case "fatal":
		return Fatal, nil
	default:
		return 0, &SeverityError{Token: s}
	}
}

// Rank orders severities; higher is more severe. Invalid values rank 0.
func (s Severity) Rank() int {
	switch s {
	case Trace:
		return 1
	case Debug:
		return 2
	case Info:
		return 3
	case Warn:
		return 4
	case Error:
		return 5
	case Fatal:
		return 6
	default:
		return 0
	}
}

// Compare returns -1, 0 or +1 by rank.
func (s Severity) Compare(other Severity) int {
	switch a, b := s.Rank(), other.Rank(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsErrorClass reports whether s counts toward the error rate.
func (s Severity) IsErrorClass() bool {
	return s == Error || s == Fatal
}

// Valid reports whether s is one of the six defined severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

func (s Severity) String() string {
	switch s {
	case Trace:
		return "Trace"
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warn:
		return "Warn"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler so severities can key JSON maps.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal %s: %w", s, ErrInvalidSeverity)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
