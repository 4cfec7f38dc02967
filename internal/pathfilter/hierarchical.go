package pathfilter

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// hierarchicalMatcher is the shared engine behind GitignoreMatcher and
// LocalIgnoreMatcher: both need to discover a marker file (.gitignore,
// .resubignore) at every directory level under a root, compile each with
// sabhiram/go-gitignore, and evaluate a candidate path against every
// ancestor directory's compiled patterns in root-to-leaf order. A path is
// ignored as soon as any one marker file's patterns match it: a negation
// only takes effect within the marker file that contains it, so a deeper
// .gitignore cannot un-ignore a path a shallower one matched.
//
// A batch rewrite tool has the same reason to respect this hierarchy that a
// version-control client does: a pattern scoped to a subtree (e.g. a
// vendored dependency's own .gitignore) must not leak rewrite exclusions
// onto sibling directories.
type hierarchicalMatcher struct {
	root       string
	markerName string
	matchers   map[string]*gitignore.GitIgnore
	// dirs stores the sorted list of directory keys for deterministic
	// iteration from root toward the file's parent directory.
	dirs   []string
	logger *slog.Logger
}

// newHierarchicalMatcher walks rootDir looking for markerName at every
// directory level and compiles each occurrence found. component names the
// slog logger for diagnostics; it also identifies which ignore source
// (gitignore vs resubignore) produced a given decision when two matchers
// run side by side.
func newHierarchicalMatcher(rootDir, markerName, component string) (*hierarchicalMatcher, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root path %s: %w", rootDir, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root path %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", absRoot)
	}

	m := &hierarchicalMatcher{
		root:       absRoot,
		markerName: markerName,
		matchers:   make(map[string]*gitignore.GitIgnore),
		logger:     slog.Default().With("component", component),
	}

	if err := m.discover(); err != nil {
		return nil, fmt.Errorf("discovering %s files in %s: %w", markerName, absRoot, err)
	}

	m.logger.Debug("hierarchical matcher initialized",
		"root", absRoot,
		"marker", markerName,
		"file_count", len(m.matchers),
	)

	return m, nil
}

func (m *hierarchicalMatcher) discover() error {
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}

		// .git carries its own exclusion semantics (info/exclude) that
		// neither matcher models; descending into it only wastes time.
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		if d.IsDir() || d.Name() != m.markerName {
			return nil
		}

		dirPath := filepath.Dir(path)
		relDir, err := filepath.Rel(m.root, dirPath)
		if err != nil {
			m.logger.Debug("skipping marker file, cannot compute relative path",
				"path", path, "error", err)
			return nil
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			m.logger.Debug("skipping unreadable marker file", "path", path, "error", err)
			return nil
		}

		if relDir == "" {
			relDir = "."
		}

		m.matchers[relDir] = compiled
		m.logger.Debug("loaded marker file", "dir", relDir, "path", path)

		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory tree: %w", err)
	}

	m.dirs = make([]string, 0, len(m.matchers))
	for dir := range m.matchers {
		m.dirs = append(m.dirs, dir)
	}
	sort.Strings(m.dirs)

	return nil
}

// isIgnored reports whether path (relative to root, isDir indicating
// whether it names a directory) matches any discovered marker file's
// patterns, evaluating from root toward path's parent directory.
func (m *hierarchicalMatcher) isIgnored(path string, isDir bool) bool {
	normalizedPath := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}

	matchPath := normalizedPath
	if isDir && !strings.HasSuffix(matchPath, "/") {
		matchPath += "/"
	}

	for _, dir := range m.dirs {
		matcher := m.matchers[dir]

		if dir != "." {
			prefix := dir + "/"
			if !strings.HasPrefix(normalizedPath, prefix) {
				continue
			}
		}

		var relPath string
		if dir == "." {
			relPath = matchPath
		} else {
			relPath = strings.TrimPrefix(matchPath, dir+"/")
		}

		if matcher.MatchesPath(relPath) {
			m.logger.Debug("path matched ignore rules",
				"path", normalizedPath,
				"marker_dir", dir,
				"rel_path", relPath,
			)
			return true
		}
	}

	return false
}

// patternCount returns the number of marker files that were discovered and
// compiled.
func (m *hierarchicalMatcher) patternCount() int {
	return len(m.matchers)
}
