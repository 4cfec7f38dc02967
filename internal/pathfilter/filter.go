package pathfilter

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/resub/resub/internal/pipeline"
)

// DirDecision is the outcome of classifying a candidate directory.
type DirDecision string

const (
	Descend DirDecision = "Descend"
	Skip    DirDecision = "Skip"
)

// FileDecision is the outcome of classifying a candidate file.
type FileDecision string

const (
	Include             FileDecision = "Include"
	ExcludedByPattern   FileDecision = "ExcludedByPattern"
	ExcludedByExtension FileDecision = "ExcludedByExtension"
	ExcludedByHidden    FileDecision = "ExcludedByHidden"
	TooLarge            FileDecision = "TooLarge"
)

// PathFilter is a pure decision function (spec.md §4.1): given a path and a
// FilterConfig, it classifies a directory as Descend/Skip and a file as
// Include/ExcludedByPattern/ExcludedByExtension/ExcludedByHidden/TooLarge.
// It raises no errors; every outcome is a tagged enum variant.
//
// PathFilter never touches the filesystem and never follows an Ignorer
// chain itself -- composing optional .gitignore/.resubignore/git-tracked
// sources in front of it is the Walker's job (see internal/walker), which
// keeps this type a pure function of (path, size, config) as the spec
// requires.
type PathFilter struct {
	cfg             pipeline.FilterConfig
	excludePatterns []string // user excludes unioned with DefaultFileExcludes/DefaultDirExcludes
	extensions      map[string]bool
	logger          *slog.Logger
}

// New constructs a PathFilter from the given FilterConfig. Extension values
// are normalized to lowercase; exclude patterns are unioned with the
// built-in defaults.
func New(cfg pipeline.FilterConfig) *PathFilter {
	extensions := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		extensions[ext] = true
	}

	excludes := make([]string, 0, len(cfg.ExcludePatterns)+len(DefaultDirExcludes)+len(DefaultFileExcludes))
	excludes = append(excludes, cfg.ExcludePatterns...)
	for _, d := range DefaultDirExcludes {
		excludes = append(excludes, d, d+"/**")
	}
	excludes = append(excludes, DefaultFileExcludes...)

	return &PathFilter{
		cfg:             cfg,
		excludePatterns: excludes,
		extensions:      extensions,
		logger:          slog.Default().With("component", "pathfilter"),
	}
}

// ClassifyDirectory decides whether to descend into relPath (forward-slash,
// root-relative) at the given depth (0 = root's direct children).
func (f *PathFilter) ClassifyDirectory(relPath string, depth int) DirDecision {
	relPath = normalize(relPath)
	base := filepath.Base(relPath)

	if depth > f.cfg.MaxDepth {
		return Skip
	}

	if !f.cfg.IncludeHidden && isHidden(base) {
		return Skip
	}

	if f.matchesAny(f.excludePatterns, relPath) || f.matchesAny(f.excludePatterns, base) {
		return Skip
	}

	return Descend
}

// ClassifyFile decides whether relPath should be processed, given its size
// in bytes.
func (f *PathFilter) ClassifyFile(relPath string, size int64) FileDecision {
	relPath = normalize(relPath)
	base := filepath.Base(relPath)

	if !f.cfg.IncludeHidden && isHidden(base) {
		return ExcludedByHidden
	}

	if f.matchesAny(f.excludePatterns, relPath) || f.matchesAny(f.excludePatterns, base) {
		return ExcludedByPattern
	}

	if !f.extensionAllowed(relPath) {
		return ExcludedByExtension
	}

	if f.cfg.MaxFileSize > 0 && size > f.cfg.MaxFileSize {
		return TooLarge
	}

	return Include
}

func (f *PathFilter) extensionAllowed(relPath string) bool {
	ext := extensionOf(relPath)
	if len(f.extensions) > 0 {
		return f.extensions[ext]
	}
	return DefaultTextExtensions[ext]
}

func (f *PathFilter) matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		matched, err := doublestar.Match(p, path)
		if err != nil {
			f.logger.Debug("invalid glob pattern", "pattern", p, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// normalize converts OS separators to forward slashes and strips a leading
// "./", matching doublestar's expectations.
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}
