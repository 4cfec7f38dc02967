package pathfilter

// GitignoreMatcher evaluates a root directory's .gitignore files
// hierarchically, the same way a VCS client would, so that a rewrite job
// never touches a path the project's own .gitignore says isn't part of the
// project -- vendored dependencies, build output, generated code. Those are
// exactly the files a text-replacement pass is most likely to corrupt
// silently, since nothing re-generates or re-vendors them to catch the
// damage.
//
// Paths passed to IsIgnored must be relative to the root directory used to
// construct the matcher.
type GitignoreMatcher struct {
	m *hierarchicalMatcher
}

// NewGitignoreMatcher walks rootDir to discover every .gitignore file in
// the tree and compiles their patterns with sabhiram/go-gitignore.
//
// If no .gitignore files exist, the matcher returns successfully and
// IsIgnored always returns false. An unreadable individual .gitignore is
// logged and skipped rather than failing the whole walk.
func NewGitignoreMatcher(rootDir string) (*GitignoreMatcher, error) {
	m, err := newHierarchicalMatcher(rootDir, ".gitignore", "gitignore")
	if err != nil {
		return nil, err
	}
	return &GitignoreMatcher{m: m}, nil
}

// IsIgnored reports whether path should be excluded from a rewrite job
// according to the loaded .gitignore rules. isDir selects directory-only
// pattern matching (patterns ending in /).
//
// Performance: matching is O(patterns across applicable .gitignore files),
// not O(files in the tree).
func (g *GitignoreMatcher) IsIgnored(path string, isDir bool) bool {
	return g.m.isIgnored(path, isDir)
}

// PatternCount returns how many .gitignore files were loaded, for
// diagnostics.
func (g *GitignoreMatcher) PatternCount() int {
	return g.m.patternCount()
}

// Compile-time interface compliance check.
var _ Ignorer = (*GitignoreMatcher)(nil)
