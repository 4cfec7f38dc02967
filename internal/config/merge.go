package config

// mergeProfile creates a new Profile by applying override on top of base.
// The merge rules are:
//   - String scalars: use override if non-empty; otherwise keep base.
//   - Int/int64 scalars: use override if non-zero; otherwise keep base.
//   - Bool scalars: always use override (false is a valid override value).
//   - Slice fields (Extensions, ExcludePatterns): use override slice if it
//     is non-nil and non-empty; otherwise keep base slice.
//
// Neither base nor override is mutated. A fresh Profile is always returned.
// The Extends field is always cleared on the returned profile.
func mergeProfile(base, override *Profile) *Profile {
	return &Profile{
		// Scalar: string
		RootDirectory: mergeString(base.RootDirectory, override.RootDirectory),
		RulesFile:     mergeString(base.RulesFile, override.RulesFile),

		// Scalar: int / int64
		MaxFileSize:        mergeInt64(base.MaxFileSize, override.MaxFileSize),
		MaxDepth:           mergeInt(base.MaxDepth, override.MaxDepth),
		Concurrency:        mergeInt(base.Concurrency, override.Concurrency),
		ProgressIntervalMs: mergeInt(base.ProgressIntervalMs, override.ProgressIntervalMs),
		QueueDepth:         mergeInt(base.QueueDepth, override.QueueDepth),

		// Scalar: bool -- override always wins (false is meaningful)
		IncludeHidden:      override.IncludeHidden,
		RespectGitignore:   override.RespectGitignore,
		RespectLocalIgnore: override.RespectLocalIgnore,
		GitTrackedOnly:     override.GitTrackedOnly,
		DryRun:             override.DryRun,
		CreateBackup:       override.CreateBackup,

		// Slices: child replaces parent entirely when non-nil and non-empty
		Extensions:      mergeSlice(base.Extensions, override.Extensions),
		ExcludePatterns: mergeSlice(base.ExcludePatterns, override.ExcludePatterns),

		// Extends is always cleared after merge (profile is fully resolved)
		Extends: nil,
	}
}

// mergeString returns override if non-empty, otherwise base.
func mergeString(base, override string) string {
	if override != "" {
		return override
	}
	return base
}

// mergeInt returns override if non-zero, otherwise base.
func mergeInt(base, override int) int {
	if override != 0 {
		return override
	}
	return base
}

// mergeInt64 returns override if non-zero, otherwise base.
func mergeInt64(base, override int64) int64 {
	if override != 0 {
		return override
	}
	return base
}

// mergeSlice returns a copy of override if it is non-nil and non-empty,
// otherwise returns a copy of base. Copies are made at the boundary to
// prevent callers from sharing slice backing arrays.
func mergeSlice(base, override []string) []string {
	if len(override) > 0 {
		result := make([]string, len(override))
		copy(result, override)
		return result
	}
	if len(base) > 0 {
		result := make([]string, len(base))
		copy(result, base)
		return result
	}
	return nil
}
