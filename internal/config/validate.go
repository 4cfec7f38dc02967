package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/resub/resub/internal/pipeline"
)

// minMaxFileSize and maxMaxFileSize bound the accepted range for
// FilterConfig.MaxFileSize. Zero is rejected (every file would be
// TooLarge); the upper bound catches an accidental units mistake (e.g. a
// byte count where MB was intended).
const (
	minMaxFileSize int64 = 1
	maxMaxFileSize int64 = 100 * 1024 * 1024 * 1024 // 100 GiB
)

// ValidateConfig inspects a JobConfig and returns a slice of ValidationErrors
// describing every problem found. It does not stop at the first error; all
// checks run and all findings are accumulated before returning.
//
// Per the interface contract the core exposes to its caller, ValidateConfig
// covers: an empty find in any enabled rule, duplicate rule ids, maxFileSize
// out of range, an unreadable root directory, and a malformed glob pattern.
//
// The returned slice is nil when no issues are found. ValidateConfig does
// not modify cfg.
func ValidateConfig(cfg pipeline.JobConfig) []ValidationError {
	var results []ValidationError

	results = append(results, validateRules(cfg.Rules)...)
	results = append(results, validateFilter(cfg.Filter)...)
	results = append(results, validateRootDirectory(cfg.RootDirectory)...)

	if len(results) > 0 {
		slog.Debug("job config validation complete", "total_issues", len(results))
	}

	return results
}

// validateRules checks for an empty find in any enabled rule and for
// duplicate rule ids across the whole ruleset (disabled rules included,
// since an id collision is a configuration mistake regardless of enabled
// state).
func validateRules(rules pipeline.Ruleset) []ValidationError {
	var results []ValidationError

	seen := make(map[string]int, len(rules))
	for i, r := range rules {
		field := fmt.Sprintf("replacements[%d]", i)

		if r.Enabled && r.Find == "" {
			results = append(results, ValidationError{
				Severity: "error",
				Field:    field + ".from",
				Message:  fmt.Sprintf("rule %q is enabled but has an empty find string", r.ID),
				Suggest:  "Set a non-empty find string or disable the rule",
			})
		}

		if first, dup := seen[r.ID]; dup {
			results = append(results, ValidationError{
				Severity: "error",
				Field:    field + ".id",
				Message:  fmt.Sprintf("rule id %q is also used by replacements[%d]", r.ID, first),
				Suggest:  "Rule ids must be unique within a ruleset",
			})
		} else {
			seen[r.ID] = i
		}
	}

	return results
}

// validateFilter checks that MaxFileSize falls within the accepted range and
// that every glob pattern in ExcludePatterns is syntactically valid.
func validateFilter(f pipeline.FilterConfig) []ValidationError {
	var results []ValidationError

	if f.MaxFileSize < minMaxFileSize || f.MaxFileSize > maxMaxFileSize {
		results = append(results, ValidationError{
			Severity: "error",
			Field:    "target_settings.max_file_size",
			Message:  fmt.Sprintf("max_file_size %d is out of range [%d, %d]", f.MaxFileSize, minMaxFileSize, maxMaxFileSize),
			Suggest:  "Set max_file_size to a positive byte count no larger than 100GB",
		})
	}

	for i, pattern := range f.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			results = append(results, ValidationError{
				Severity: "error",
				Field:    fmt.Sprintf("target_settings.exclude_patterns[%d]", i),
				Message:  fmt.Sprintf("invalid glob pattern %q", pattern),
				Suggest:  "Use doublestar glob syntax, e.g. \"**/*.go\" or \"vendor/**\"",
			})
		}
	}

	return results
}

// validateRootDirectory checks that the root directory exists, is a
// directory, and is readable by this process.
func validateRootDirectory(dir string) []ValidationError {
	info, err := os.Stat(dir)
	if err != nil {
		return []ValidationError{{
			Severity: "error",
			Field:    "root_directory",
			Message:  fmt.Sprintf("cannot access %q: %s", dir, err.Error()),
			Suggest:  "Check that the root directory exists and is spelled correctly",
		}}
	}
	if !info.IsDir() {
		return []ValidationError{{
			Severity: "error",
			Field:    "root_directory",
			Message:  fmt.Sprintf("%q is not a directory", dir),
			Suggest:  "Point root_directory at a directory, not a file",
		}}
	}

	f, err := os.Open(dir)
	if err != nil {
		return []ValidationError{{
			Severity: "error",
			Field:    "root_directory",
			Message:  fmt.Sprintf("%q is not readable: %s", dir, err.Error()),
			Suggest:  "Check directory permissions",
		}}
	}
	f.Close()

	return nil
}
