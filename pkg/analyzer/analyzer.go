// Package analyzer reads log files and directories, parses every line and
// collects the records and parse errors for statistics.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/logstat/pkg/metrics"
	"github.com/ccollicutt/logstat/pkg/parser"
	"github.com/ccollicutt/logstat/pkg/stats"
)

// Analyzer accumulates records and parse errors across files.
// It is not safe for concurrent use; parallelism happens inside ProcessDirectory.
type Analyzer struct {
	extensions  []string
	concurrency int
	skipBlank   bool
	logger      zerolog.Logger
	metrics     *metrics.Collector

	records []parser.Record
	errors  []parser.ParseError
	sources []string
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithExtensions sets the file extensions picked up from directories.
func WithExtensions(exts ...string) Option {
	return func(a *Analyzer) {
		if len(exts) == 0 {
			return
		}
		a.extensions = a.extensions[:0]
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			a.extensions = append(a.extensions, ext)
		}
	}
}

// WithConcurrency sets how many files of a directory are parsed at once.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithSkipBlankLines drops blank lines instead of reporting them as errors.
func WithSkipBlankLines(skip bool) Option {
	return func(a *Analyzer) {
		a.skipBlank = skip
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithMetrics records per-file counters on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *Analyzer) {
		a.metrics = c
	}
}

// New creates an analyzer. By default it reads *.log files one at a time.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		extensions:  []string{".log"},
		concurrency: 1,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Records returns the parsed records in file and line order.
func (a *Analyzer) Records() []parser.Record {
	return a.records
}

// ParseErrors returns the lines that failed to parse, in file and line order.
func (a *Analyzer) ParseErrors() []parser.ParseError {
	return a.errors
}

// Sources returns the files read so far.
func (a *Analyzer) Sources() []string {
	return a.sources
}

// Statistics computes a fresh snapshot over all records collected so far.
func (a *Analyzer) Statistics() stats.Statistics {
	return stats.Compute(a.records)
}

// ProcessPaths expands globs and processes each resulting path in order.
// It stops at the first path-level error.
func (a *Analyzer) ProcessPaths(ctx context.Context, patterns []string) (int, error) {
	paths, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, path := range paths {
		n, err := a.ProcessPath(ctx, path)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ProcessPath processes a file or a directory.
func (a *Analyzer) ProcessPath(ctx context.Context, path string) (int, error) {
	info, err := stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return a.ProcessDirectory(ctx, path)
	}
	return a.ProcessFile(ctx, path)
}

// ProcessFile parses every line of one file and returns the number of records.
// Lines that fail to parse are collected, not returned as errors.
func (a *Analyzer) ProcessFile(ctx context.Context, path string) (int, error) {
	info, err := stat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, &InvalidPathError{Path: path, Reason: "expected a file path"}
	}

	res, err := a.parseFile(ctx, path)
	if err != nil {
		return 0, err
	}
	a.commit(res)
	return len(res.records), nil
}

// ProcessDirectory parses the eligible files directly inside path, in name
// order, and returns the number of records. Subdirectories are not entered.
// If any file cannot be read nothing from the directory is kept.
func (a *Analyzer) ProcessDirectory(ctx context.Context, path string) (int, error) {
	info, err := stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, &InvalidPathError{Path: path, Reason: "expected a directory path"}
	}

	files, err := a.eligibleFiles(path)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, &NoFilesFoundError{Path: path, Extensions: a.extensions}
	}

	results := make([]*fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			res, err := a.parseFile(gctx, file)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, res := range results {
		a.commit(res)
		total += len(res.records)
	}

	a.logger.Debug().
		Str("directory", path).
		Int("files", len(files)).
		Int("records", total).
		Msg("processed directory")

	return total, nil
}

// eligibleFiles lists regular files in dir whose extension is selected.
// Symlinks are followed; broken ones are skipped.
func (a *Analyzer) eligibleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !a.matchesExtension(entry.Name()) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, full)
	}
	return files, nil
}

func (a *Analyzer) matchesExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range a.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// fileResult holds everything parsed from one file before it is committed.
type fileResult struct {
	path    string
	lines   int
	records []parser.Record
	errors  []parser.ParseError
}

func (a *Analyzer) parseFile(ctx context.Context, path string) (*fileResult, error) {
	source := parser.NewFileSource(path)
	defer source.Close()

	res := &fileResult{path: path}
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &IOError{Path: path, Err: err}
		}

		res.lines++
		if a.skipBlank && !line.TooLong && strings.TrimSpace(line.Content) == "" {
			continue
		}

		rec, err := parser.ParseLogLine(line)
		if err != nil {
			var pe *parser.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("parsing %s:%d: %w", path, line.LineNum, err)
			}
			res.errors = append(res.errors, *pe)
			continue
		}
		res.records = append(res.records, rec)
	}
	return res, nil
}

// commit appends a file's results and reports them.
func (a *Analyzer) commit(res *fileResult) {
	a.records = append(a.records, res.records...)
	a.errors = append(a.errors, res.errors...)
	a.sources = append(a.sources, res.path)

	kinds := make(map[string]int)
	for i := range res.errors {
		pe := &res.errors[i]
		kinds[pe.Kind()]++
		a.logger.Debug().
			Str("source", pe.Source).
			Int("line", pe.Line).
			Str("kind", pe.Kind()).
			Msg(pe.Reason)
	}

	event := a.logger.Debug()
	if len(res.errors) > 0 {
		event = a.logger.Warn()
	}
	event.Str("file", res.path).
		Int("lines", res.lines).
		Int("records", len(res.records)).
		Int("parse_errors", len(res.errors)).
		Msg("processed file")

	if a.metrics != nil {
		a.metrics.ObserveFile(res.lines, len(res.records), kinds)
	}
}

func stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &InvalidPathError{Path: path, Reason: "path does not exist"}
	}
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return info, nil
}
