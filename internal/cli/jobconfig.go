package cli

import (
	"time"

	"github.com/resub/resub/internal/config"
	"github.com/resub/resub/internal/pipeline"
)

// buildJobConfig assembles a pipeline.JobConfig from the parsed global flags.
// When fv.RulesFile is set it is loaded via config.LoadRulesFile and its
// Ruleset/FilterConfig take precedence over the corresponding flags, mirroring
// the flag layer's place at the top of the config precedence chain: a rules
// file given explicitly on the command line is itself a flag-layer input.
func buildJobConfig(fv *config.FlagValues) (pipeline.JobConfig, error) {
	job := pipeline.JobConfig{
		RootDirectory: fv.Dir,
		Filter: pipeline.FilterConfig{
			Extensions:         fv.Extensions,
			ExcludePatterns:    fv.ExcludePatterns,
			MaxFileSize:        fv.MaxFileSize,
			MaxDepth:           fv.MaxDepth,
			IncludeHidden:      fv.IncludeHidden,
			RespectGitignore:   fv.RespectGitignore,
			RespectLocalIgnore: fv.RespectLocalIgnore,
			GitTrackedOnly:     fv.GitTrackedOnly,
		},
		Options: pipeline.JobOptions{
			DryRun:                 fv.DryRun,
			CreateBackup:           fv.CreateBackup,
			Concurrency:            fv.Concurrency,
			Encoding:               "utf-8",
			ProgressUpdateInterval: time.Duration(fv.ProgressIntervalMs) * time.Millisecond,
		},
	}

	if fv.RulesFile == "" {
		return job, nil
	}

	rules, filter, err := config.LoadRulesFile(fv.RulesFile)
	if err != nil {
		return pipeline.JobConfig{}, err
	}
	job.Rules = rules

	// Only the rules file's extensions/exclude patterns/max size/depth
	// override the flag defaults when the file actually sets them; a zero
	// value means the file was silent on that setting and the flag value
	// stands. MaxDepth uses -1 (config.LoadRulesFile's sentinel) rather
	// than 0 for "silent" because 0 is itself a meaningful, explicit depth
	// (restrict to the root directory's direct children).
	if len(filter.Extensions) > 0 {
		job.Filter.Extensions = filter.Extensions
	}
	if len(filter.ExcludePatterns) > 0 {
		job.Filter.ExcludePatterns = filter.ExcludePatterns
	}
	if filter.MaxFileSize > 0 {
		job.Filter.MaxFileSize = filter.MaxFileSize
	}
	if filter.MaxDepth >= 0 {
		job.Filter.MaxDepth = filter.MaxDepth
	}

	return job, nil
}
