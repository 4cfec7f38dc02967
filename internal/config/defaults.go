package config

import "runtime"

// DefaultMaxFileSize is the default per-file size cap: 10 MiB.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// DefaultProfile returns a new Profile populated with the built-in defaults.
// This profile is used as the base when no resub.toml is present or when a
// named profile omits fields.
//
// Callers receive a fresh copy each time; mutating the returned value does
// not affect subsequent calls.
func DefaultProfile() *Profile {
	return &Profile{
		RootDirectory: ".",
		Extensions:    nil, // empty means "use the built-in text-extension allow list"
		ExcludePatterns: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"vendor/**",
		},
		MaxFileSize:        DefaultMaxFileSize,
		MaxDepth:           64,
		IncludeHidden:      false,
		RespectGitignore:   true,
		RespectLocalIgnore: true,
		GitTrackedOnly:     false,
		DryRun:             false,
		CreateBackup:       false,
		Concurrency:        defaultConcurrency(),
		ProgressIntervalMs: 100,
		QueueDepth:         0, // zero resolves to 2x concurrency at Scheduler.Run time
	}
}

func defaultConcurrency() int {
	if n := runtime.NumCPU(); n < 10 {
		return n
	}
	return 10
}
