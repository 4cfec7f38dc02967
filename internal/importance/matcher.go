package importance

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher assigns each file path to exactly one importance Level using the
// glob patterns in a slice of Definition. Levels are evaluated in ascending
// order (Critical first); the first matching pattern wins. Files matching no
// pattern are assigned DefaultUnmatched.
//
// Construct once via NewMatcher and reuse for every file in a preview run;
// pattern validation happens at construction time so per-file matching stays
// allocation-free.
type Matcher struct {
	levels []levelEntry
}

type levelEntry struct {
	level    Level
	patterns []string
}

// NewMatcher constructs a Matcher from the supplied definitions, sorted by
// ascending Level so Critical is evaluated before High, and so on. Patterns
// that fail doublestar.ValidatePattern are silently discarded.
func NewMatcher(defs []Definition) *Matcher {
	sorted := make([]Definition, len(defs))
	copy(sorted, defs)
	for i := 1; i < len(sorted); i++ {
		key := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j].Level > key.Level {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = key
	}

	entries := make([]levelEntry, 0, len(sorted))
	for _, d := range sorted {
		valid := make([]string, 0, len(d.Patterns))
		for _, p := range d.Patterns {
			if doublestar.ValidatePattern(p) {
				valid = append(valid, p)
			}
		}
		entries = append(entries, levelEntry{level: d.Level, patterns: valid})
	}

	return &Matcher{levels: entries}
}

// Match returns the Level for the given file path. filePath must use
// forward slashes; a leading "./" is stripped automatically.
func (m *Matcher) Match(filePath string) Level {
	normalised := strings.TrimPrefix(strings.ReplaceAll(filePath, `\`, "/"), "./")

	for _, entry := range m.levels {
		for _, pattern := range entry.patterns {
			if matched, err := doublestar.Match(pattern, normalised); err == nil && matched {
				return entry.level
			}
		}
	}

	return DefaultUnmatched
}
