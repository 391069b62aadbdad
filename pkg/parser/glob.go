package parser

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandGlobs expands command-line paths and glob patterns into a deduplicated
// list. Arguments keep their order; the matches of a single pattern are sorted.
// A pattern that matches nothing is returned as-is so the caller can report
// the missing path.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			result = append(result, p)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		sort.Strings(matches)
		for _, match := range matches {
			add(match)
		}
	}

	return result, nil
}
