package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Timestamp errors.
var (
	ErrInvalidFormat = errors.New("invalid format in date and time")
	ErrInvalidDate   = errors.New("invalid date format")
	ErrInvalidTime   = errors.New("invalid time format")
	ErrInvalidField  = errors.New("invalid timestamp field")
)

// FieldError reports a timestamp field that is not a number or is out of range.
type FieldError struct {
	Field string
	Value string
	Min   int
	Max   int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q (must be %d-%d)", e.Field, e.Value, e.Min, e.Max)
}

// Is lets errors.Is match any FieldError against ErrInvalidField.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Timestamp is a calendar date and wall-clock time without a zone.
// The zero value is not a valid timestamp; use ParseTimestamp or NewTimestamp.
type Timestamp struct {
	year   int
	month  int
	day    int
	hour   int
	minute int
	second int
}

// field bounds, in parse order
var timestampFields = [6]struct {
	name     string
	min, max int
}{
	{"year", 1970, 9999},
	{"month", 1, 12},
	{"day", 1, 31},
	{"hour", 0, 23},
	{"minute", 0, 59},
	{"second", 0, 59},
}

// NewTimestamp builds a Timestamp from numeric fields.
// Days are only checked against 1-31; the month length is not considered.
func NewTimestamp(year, month, day, hour, minute, second int) (Timestamp, error) {
	values := [6]int{year, month, day, hour, minute, second}
	for i, v := range values {
		f := timestampFields[i]
		if v < f.min || v > f.max {
			return Timestamp{}, &FieldError{Field: f.name, Value: strconv.Itoa(v), Min: f.min, Max: f.max}
		}
	}
	return Timestamp{year: year, month: month, day: day, hour: hour, minute: minute, second: second}, nil
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS". Fields need not be zero padded.
func ParseTimestamp(s string) (Timestamp, error) {
	date, clock, ok := strings.Cut(s, " ")
	if !ok {
		return Timestamp{}, ErrInvalidFormat
	}

	dateParts, ok := splitThree(date, "-")
	if !ok {
		return Timestamp{}, ErrInvalidDate
	}
	timeParts, ok := splitThree(clock, ":")
	if !ok {
		return Timestamp{}, ErrInvalidTime
	}

	raw := [6]string{dateParts[0], dateParts[1], dateParts[2], timeParts[0], timeParts[1], timeParts[2]}
	var values [6]int
	for i, s := range raw {
		f := timestampFields[i]
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil || int(n) < f.min || int(n) > f.max {
			return Timestamp{}, &FieldError{Field: f.name, Value: s, Min: f.min, Max: f.max}
		}
		values[i] = int(n)
	}

	return Timestamp{
		year:   values[0],
		month:  values[1],
		day:    values[2],
		hour:   values[3],
		minute: values[4],
		second: values[5],
	}, nil
}

// splitThree splits s on sep and requires exactly three non-empty parts.
func splitThree(s, sep string) ([3]string, bool) {
	var out [3]string
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return out, false
	}
	for i, p := range parts {
		if p == "" {
			return out, false
		}
		out[i] = p
	}
	return out, true
}

func (t Timestamp) Year() int   { return t.year }
func (t Timestamp) Month() int  { return t.month }
func (t Timestamp) Day() int    { return t.day }
func (t Timestamp) Hour() int   { return t.hour }
func (t Timestamp) Minute() int { return t.minute }
func (t Timestamp) Second() int { return t.second }

// IsZero reports whether t is the unset zero value.
func (t Timestamp) IsZero() bool {
	return t == Timestamp{}
}

// Compare returns -1, 0 or +1 comparing field by field from year to second.
func (t Timestamp) Compare(other Timestamp) int {
	a := [6]int{t.year, t.month, t.day, t.hour, t.minute, t.second}
	b := [6]int{other.year, other.month, other.day, other.hour, other.minute, other.second}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Before reports whether t is earlier than other.
func (t Timestamp) Before(other Timestamp) bool { return t.Compare(other) < 0 }

// After reports whether t is later than other.
func (t Timestamp) After(other Timestamp) bool { return t.Compare(other) > 0 }

// Equal reports whether t and other name the same instant.
func (t Timestamp) Equal(other Timestamp) bool { return t == other }

// String renders the timestamp in the parse grammar without zero padding.
func (t Timestamp) String() string {
	return fmt.Sprintf("%d-%d-%d %d:%d:%d", t.year, t.month, t.day, t.hour, t.minute, t.second)
}

// MarshalText implements encoding.TextMarshaler.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
