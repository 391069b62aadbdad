package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

// Path-level errors. Each aborts processing of the path it names.
var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrIO           = errors.New("i/o error")
	ErrNoFilesFound = errors.New("no matching log files found")
)

// InvalidPathError reports a path that is missing or of the wrong kind.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %s: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// IOError reports a failure opening or reading a path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error on %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NoFilesFoundError reports a directory without any eligible log file.
type NoFilesFoundError struct {
	Path       string
	Extensions []string
}

func (e *NoFilesFoundError) Error() string {
	return fmt.Sprintf("no files with extension %s found in %s", strings.Join(e.Extensions, ", "), e.Path)
}

func (e *NoFilesFoundError) Is(target error) bool {
	return target == ErrNoFilesFound
}
