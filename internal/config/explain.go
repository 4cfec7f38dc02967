package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/resub/resub/internal/pathfilter"
	"github.com/resub/resub/internal/pipeline"
)

// TraceStep records one evaluation step during file inclusion tracing.
type TraceStep struct {
	// StepNum is the 1-based step number in the evaluation sequence.
	StepNum int

	// Rule describes the check being evaluated, e.g. "Exclude patterns".
	Rule string

	// Matched indicates whether the rule matched (and therefore excluded the
	// file) during this step.
	Matched bool

	// Outcome describes the result of this step, e.g. "continue", "EXCLUDED".
	Outcome string
}

// ExplainResult holds the full explanation for a single file path showing how
// a FilterConfig would classify the file during discovery.
type ExplainResult struct {
	// FilePath is the file path being explained.
	FilePath string

	// ProfileName is the name of the profile being used for display.
	ProfileName string

	// Included indicates whether the file is included (true) or excluded (false).
	Included bool

	// ExcludedBy names the check that caused exclusion when Included is false.
	ExcludedBy string

	// Decision is the pathfilter.FileDecision returned for this path.
	Decision pathfilter.FileDecision

	// Trace is the ordered list of evaluation steps.
	Trace []TraceStep
}

// ExplainFile evaluates how the given FilterConfig would classify filePath
// and returns a full ExplainResult describing the evaluation. profileName is
// used for display only; it does not affect the evaluation logic.
//
// rootDir is used to resolve the file's size on disk and to discover
// .gitignore / .resubignore files when RespectGitignore / RespectLocalIgnore
// are enabled. If the file cannot be stat'd, size-based checks are skipped
// and noted in the trace.
func ExplainFile(filePath, profileName string, cfg pipeline.FilterConfig, rootDir string) ExplainResult {
	result := ExplainResult{
		FilePath:    filePath,
		ProfileName: profileName,
	}

	stepNum := 0
	nextStep := func() int {
		stepNum++
		return stepNum
	}

	var size int64
	if info, err := os.Stat(filepath.Join(rootDir, filePath)); err == nil {
		size = info.Size()
	}

	// ── Step 1: gitignore ────────────────────────────────────────────────────
	if cfg.RespectGitignore {
		step := TraceStep{StepNum: nextStep(), Rule: ".gitignore rules"}
		if m, err := pathfilter.NewGitignoreMatcher(rootDir); err == nil && m.IsIgnored(filePath, false) {
			step.Matched = true
			step.Outcome = "EXCLUDED"
			result.Trace = append(result.Trace, step)
			result.Included = false
			result.ExcludedBy = "gitignore rule"
			return result
		}
		step.Outcome = "no match -> continue"
		result.Trace = append(result.Trace, step)
	}

	// ── Step 2: local ignore (.resubignore) ─────────────────────────────────
	if cfg.RespectLocalIgnore {
		step := TraceStep{StepNum: nextStep(), Rule: ".resubignore rules"}
		if m, err := pathfilter.NewLocalIgnoreMatcher(rootDir); err == nil && m.IsIgnored(filePath, false) {
			step.Matched = true
			step.Outcome = "EXCLUDED"
			result.Trace = append(result.Trace, step)
			result.Included = false
			result.ExcludedBy = "local ignore rule"
			return result
		}
		step.Outcome = "no match -> continue"
		result.Trace = append(result.Trace, step)
	}

	// ── Step 3: git-tracked-only ─────────────────────────────────────────────
	if cfg.GitTrackedOnly {
		step := TraceStep{StepNum: nextStep(), Rule: "Git tracked only"}
		tracked, err := pathfilter.GitTrackedFiles(rootDir)
		if err == nil && !tracked[filepath.ToSlash(filePath)] {
			step.Matched = true
			step.Outcome = "EXCLUDED"
			result.Trace = append(result.Trace, step)
			result.Included = false
			result.ExcludedBy = "not tracked by git"
			return result
		}
		step.Outcome = "tracked -> continue"
		result.Trace = append(result.Trace, step)
	}

	// ── Step 4: pure path filter (hidden, exclude patterns, extension, size) ──
	pf := pathfilter.New(cfg)
	decision := pf.ClassifyFile(filePath, size)
	result.Decision = decision

	step := TraceStep{StepNum: nextStep(), Rule: "Path filter"}
	switch decision {
	case pathfilter.Include:
		step.Matched = false
		step.Outcome = "included"
		result.Trace = append(result.Trace, step)
		result.Included = true
	case pathfilter.ExcludedByHidden:
		step.Matched = true
		step.Outcome = "EXCLUDED"
		result.Trace = append(result.Trace, step)
		result.ExcludedBy = "hidden file/directory"
	case pathfilter.ExcludedByPattern:
		step.Matched = true
		step.Outcome = "EXCLUDED"
		result.Trace = append(result.Trace, step)
		result.ExcludedBy = "exclude pattern"
	case pathfilter.ExcludedByExtension:
		step.Matched = true
		step.Outcome = "EXCLUDED"
		result.Trace = append(result.Trace, step)
		result.ExcludedBy = "extension not allowed"
	case pathfilter.TooLarge:
		step.Matched = true
		step.Outcome = "EXCLUDED"
		result.Trace = append(result.Trace, step)
		result.ExcludedBy = fmt.Sprintf("file size %d exceeds max_file_size %d", size, cfg.MaxFileSize)
	}

	return result
}
