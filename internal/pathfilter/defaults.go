package pathfilter

import (
	"path/filepath"
	"strings"
)

// DefaultDirExcludes is the VCS/build/cache directory set always excluded,
// unioned with any user-supplied exclude patterns (spec.md §4.1 "Defaults").
var DefaultDirExcludes = []string{
	".git", ".svn", ".hg",
	"node_modules", "vendor", "dist", "build", "target",
	"__pycache__", "coverage",
}

// DefaultFileExcludes is the default file-name exclude pattern set,
// unioned with any user-supplied exclude patterns.
var DefaultFileExcludes = []string{
	"*.min.js",
	"*.min.css",
	".DS_Store",
	"Thumbs.db",
}

// DefaultTextExtensions is the allow list consulted when FilterConfig.
// Extensions is empty (spec.md Glossary "Default text-extension allow
// list"). Stored without the leading dot, lowercase.
var DefaultTextExtensions = map[string]bool{
	"html": true, "htm": true, "css": true, "scss": true, "sass": true,
	"less": true, "js": true, "jsx": true, "ts": true, "tsx": true,
	"vue": true, "json": true, "xml": true, "php": true, "py": true,
	"rb": true, "java": true, "c": true, "cpp": true, "h": true,
	"hpp": true, "cs": true, "go": true, "rs": true, "swift": true,
	"kt": true, "scala": true, "md": true, "txt": true, "rst": true,
	"yaml": true, "yml": true, "toml": true, "ini": true, "cfg": true,
	"conf": true, "env": true,
}

// isHidden reports whether basename begins with a '.' (spec.md Glossary
// "Hidden path").
func isHidden(basename string) bool {
	return strings.HasPrefix(basename, ".")
}

// extensionOf returns the lowercased file extension without its leading dot.
func extensionOf(path string) string {
	ext := filepath.Ext(path)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
