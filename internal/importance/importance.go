// Package importance implements the "File importance" classification used
// by PreviewBuilder (spec.md §4.6, Glossary) to rank candidate files for
// sampling and risk assessment: critical config files first, then source
// code, then docs/style, with everything else last.
package importance

import "fmt"

// Level represents a file's qualitative importance. Lower numbers sort
// first (most important).
type Level int

const (
	Critical Level = 0
	High     Level = 1
	Medium   Level = 2
	Low      Level = 3
)

// String returns a human-readable label for the level.
func (l Level) String() string {
	switch l {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("level%d", int(l))
	}
}

// DefaultUnmatched is the level assigned to files that match no pattern in
// the active Definition list.
const DefaultUnmatched = Low

// Definition maps a Level to the glob patterns that place a file into it.
// Patterns use doublestar (bmatcuk/doublestar/v4) glob syntax.
type Definition struct {
	Level    Level
	Patterns []string
}

// DefaultDefinitions returns the built-in importance definitions (Glossary
// "File importance"): well-known configuration files are critical, source
// extensions are high, documentation/style is medium, everything else is
// low via DefaultUnmatched.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Level: Critical,
			Patterns: []string{
				"package.json",
				".env",
				"Dockerfile",
				"docker-compose.yml",
				"docker-compose.yaml",
				".gitignore",
			},
		},
		{
			Level: High,
			Patterns: []string{
				"**/*.go", "**/*.rs", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
				"**/*.py", "**/*.rb", "**/*.java", "**/*.c", "**/*.cpp", "**/*.h",
				"**/*.hpp", "**/*.cs", "**/*.swift", "**/*.kt", "**/*.scala",
				"**/*.php", "**/*.vue",
			},
		},
		{
			Level: Medium,
			Patterns: []string{
				"**/*.md", "**/*.rst", "**/*.txt",
				"**/*.css", "**/*.scss", "**/*.sass", "**/*.less",
			},
		},
	}
}
