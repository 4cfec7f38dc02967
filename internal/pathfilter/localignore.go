package pathfilter

// LocalIgnoreMatcher evaluates a root directory's .resubignore files
// hierarchically, using the same gitignore pattern syntax and ancestor
// evaluation order as GitignoreMatcher. It exists so a rewrite job can
// exclude paths that matter to this tool specifically -- a generated fixture
// directory a rule would otherwise rewrite, a scratch file full of
// false-positive matches -- without editing the project's own .gitignore
// and risking an unrelated tool (or a VCS-aware teammate) picking up that
// change.
type LocalIgnoreMatcher struct {
	m *hierarchicalMatcher
}

// NewLocalIgnoreMatcher walks rootDir to discover every .resubignore file
// in the tree and compiles their patterns with sabhiram/go-gitignore.
//
// If no .resubignore files exist, the matcher returns successfully and
// IsIgnored always returns false.
func NewLocalIgnoreMatcher(rootDir string) (*LocalIgnoreMatcher, error) {
	m, err := newHierarchicalMatcher(rootDir, ".resubignore", "resubignore")
	if err != nil {
		return nil, err
	}
	return &LocalIgnoreMatcher{m: m}, nil
}

// IsIgnored reports whether path should be excluded from a rewrite job
// according to the loaded .resubignore rules. isDir selects directory-only
// pattern matching (patterns ending in /).
func (l *LocalIgnoreMatcher) IsIgnored(path string, isDir bool) bool {
	return l.m.isIgnored(path, isDir)
}

// PatternCount returns how many .resubignore files were loaded, for
// diagnostics.
func (l *LocalIgnoreMatcher) PatternCount() int {
	return l.m.patternCount()
}

// Compile-time interface compliance check.
var _ Ignorer = (*LocalIgnoreMatcher)(nil)
