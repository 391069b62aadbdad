package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// MaxLineSize is the longest line a FileSource keeps. Longer lines are
// consumed and returned with TooLong set.
const MaxLineSize = 1024 * 1024

const readBufferSize = 64 * 1024

// FileSource implements LineSource for reading from log files.
type FileSource struct {
	files []string

	currentFile   *os.File
	currentReader *bufio.Reader
	currentSource string
	currentLine   int
	fileIndex     int
}

// NewFileSource creates a LineSource that reads every line of the given files in order.
func NewFileSource(files ...string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next line, including blank ones.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentReader == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		content, tooLong, err := s.readLine()
		if err == nil {
			s.currentLine++
			return &LogLine{
				Content: content,
				Source:  s.currentSource,
				LineNum: s.currentLine,
				TooLong: tooLong,
			}, nil
		}
		if err != io.EOF {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// MaxLineSize is read to its end and returned empty with tooLong set.
func (s *FileSource) readLine() (string, bool, error) {
	var (
		line    []byte
		started bool
		tooLong bool
	)
	for {
		chunk, isPrefix, err := s.currentReader.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return string(line), tooLong, nil
			}
			return "", false, err
		}
		started = true

		if !tooLong {
			if len(line)+len(chunk) > MaxLineSize {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		if !isPrefix {
			return string(line), tooLong, nil
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentReader = bufio.NewReaderSize(f, readBufferSize)
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentReader = nil
		return err
	}
	return nil
}
