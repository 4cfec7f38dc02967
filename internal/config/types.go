package config

// Config is the top-level configuration type parsed from a resub.toml file.
// It holds a map of named profiles keyed by profile name. Profile names are
// case-sensitive. The special name "default" is the built-in fallback profile.
type Config struct {
	// Profile maps profile names to their configuration. Access via
	// cfg.Profile["default"] or cfg.Profile["ci"].
	Profile map[string]*Profile `toml:"profile"`
}

// Profile defines all settings for a single named profile that resolve into
// a pipeline.JobConfig. Fields with zero values are considered unset and are
// filled in by the merge/inheritance pipeline. The Extends field enables
// profile inheritance.
type Profile struct {
	// Extends is the name of a parent profile to inherit from. When set,
	// all unset fields in this profile are filled from the named parent.
	// A nil pointer means no inheritance.
	Extends *string `toml:"extends"`

	// RootDirectory is the directory a job scans, relative to the
	// resub.toml file's own directory unless absolute.
	RootDirectory string `toml:"root_directory"`

	// RulesFile is the path to the JSON job configuration file holding the
	// Ruleset and target settings (spec.md §6).
	RulesFile string `toml:"rules_file"`

	// Extensions is a list of lowercase file extensions (without the
	// leading dot) this profile accepts. Empty means the built-in
	// text-extension allow list.
	Extensions []string `toml:"extensions"`

	// ExcludePatterns is a list of doublestar glob patterns always unioned
	// with the built-in default exclusions.
	ExcludePatterns []string `toml:"exclude_patterns"`

	// MaxFileSize is the maximum accepted file size in bytes.
	MaxFileSize int64 `toml:"max_file_size"`

	// MaxDepth is the maximum directory depth to descend.
	MaxDepth int `toml:"max_depth"`

	// IncludeHidden allows dotfiles/dot-directories when true.
	IncludeHidden bool `toml:"include_hidden"`

	// RespectGitignore additionally excludes .gitignore matches.
	RespectGitignore bool `toml:"respect_gitignore"`

	// RespectLocalIgnore additionally excludes .resubignore matches.
	RespectLocalIgnore bool `toml:"respect_local_ignore"`

	// GitTrackedOnly restricts discovery to `git ls-files` output.
	GitTrackedOnly bool `toml:"git_tracked_only"`

	// DryRun computes counts but performs no writes.
	DryRun bool `toml:"dry_run"`

	// CreateBackup writes a timestamped backup before rewriting a file.
	CreateBackup bool `toml:"create_backup"`

	// Concurrency is the maximum number of in-flight FileWorkers.
	Concurrency int `toml:"concurrency"`

	// ProgressIntervalMs throttles ProgressEvent emission, in milliseconds.
	ProgressIntervalMs int `toml:"progress_interval_ms"`

	// QueueDepth bounds the Walker-to-Scheduler buffer.
	QueueDepth int `toml:"queue_depth"`
}
