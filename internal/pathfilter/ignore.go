// Package pathfilter implements the pure directory/file inclusion decisions
// (spec.md §4.1 PathFilter) plus the optional .gitignore/.resubignore/
// git-tracked-only ignore sources a Job may chain in front of it.
package pathfilter

import (
	"log/slog"
)

// Ignorer is the interface for all ignore-pattern matchers chained in front
// of PathFilter. Each implementation decides whether a path should be
// excluded. The path must be relative to the root directory, using forward
// slashes. isDir indicates whether the path is a directory (needed for
// directory-only patterns like "dist/").
type Ignorer interface {
	IsIgnored(path string, isDir bool) bool
}

// CompositeIgnorer chains multiple Ignorer implementations and reports a
// path ignored if ANY source matches it.
type CompositeIgnorer struct {
	ignorers []Ignorer
	logger   *slog.Logger
}

// NewCompositeIgnorer builds a CompositeIgnorer from the given ignorers.
// Nil interface entries are skipped. A typed nil pointer (e.g. a nil
// *GitignoreMatcher) is not a nil interface value and is kept.
func NewCompositeIgnorer(ignorers ...Ignorer) *CompositeIgnorer {
	filtered := make([]Ignorer, 0, len(ignorers))
	for _, ig := range ignorers {
		if ig != nil {
			filtered = append(filtered, ig)
		}
	}
	return &CompositeIgnorer{
		ignorers: filtered,
		logger:   slog.Default().With("component", "composite-ignorer"),
	}
}

// IsIgnored reports whether any chained ignorer matches path.
func (c *CompositeIgnorer) IsIgnored(path string, isDir bool) bool {
	for _, ig := range c.ignorers {
		if ig.IsIgnored(path, isDir) {
			return true
		}
	}
	return false
}

// IgnorerCount returns the number of active ignorers in the chain.
func (c *CompositeIgnorer) IgnorerCount() int {
	return len(c.ignorers)
}

var _ Ignorer = (*CompositeIgnorer)(nil)
