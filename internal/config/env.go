package config

import (
	"os"
	"strconv"
)

// Environment variable name constants for RESUB_ prefixed overrides.
const (
	// EnvProfile selects the named profile to activate.
	EnvProfile = "RESUB_PROFILE"
	// EnvRootDirectory overrides the directory a job scans.
	EnvRootDirectory = "RESUB_ROOT_DIRECTORY"
	// EnvRulesFile overrides the JSON job configuration file path.
	EnvRulesFile = "RESUB_RULES_FILE"
	// EnvMaxFileSize overrides the per-file size cap, in bytes.
	EnvMaxFileSize = "RESUB_MAX_FILE_SIZE"
	// EnvMaxDepth overrides the maximum directory depth.
	EnvMaxDepth = "RESUB_MAX_DEPTH"
	// EnvConcurrency overrides the maximum number of in-flight FileWorkers.
	EnvConcurrency = "RESUB_CONCURRENCY"
	// EnvDryRun overrides the dry-run flag.
	EnvDryRun = "RESUB_DRY_RUN"
	// EnvCreateBackup overrides the backup-before-write flag.
	EnvCreateBackup = "RESUB_CREATE_BACKUP"
	// EnvGitTrackedOnly overrides the git-tracked-only discovery restriction.
	EnvGitTrackedOnly = "RESUB_GIT_TRACKED_ONLY"
	// EnvLogFormat overrides the log output format (not a profile field).
	EnvLogFormat = "RESUB_LOG_FORMAT"
)

// buildEnvMap reads RESUB_* environment variables and returns a flat map
// suitable for use with a koanf confmap provider. Only non-empty env vars that
// parse successfully are included. Invalid numeric/boolean values are silently
// skipped so that a bad env var does not block the entire resolution pipeline.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvRootDirectory); v != "" {
		m["root_directory"] = v
	}
	if v := os.Getenv(EnvRulesFile); v != "" {
		m["rules_file"] = v
	}
	if v := os.Getenv(EnvMaxFileSize); v != "" {
		if n, err := ParseSize(v); err == nil {
			m["max_file_size"] = n
		}
	}
	if v := os.Getenv(EnvMaxDepth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["max_depth"] = n
		}
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			m["concurrency"] = n
		}
	}
	if v := os.Getenv(EnvDryRun); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["dry_run"] = b
		}
	}
	if v := os.Getenv(EnvCreateBackup); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["create_backup"] = b
		}
	}
	if v := os.Getenv(EnvGitTrackedOnly); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			m["git_tracked_only"] = b
		}
	}

	return m
}
