// Package pipeline defines the data types shared across every stage of the
// resub engine: pathfilter, walker, ruleengine, fileworker, scheduler, and
// preview all operate on the DTOs defined here.
//
// This package has zero external dependencies -- only stdlib types. It
// contains only data types and lightweight helpers; no business logic.
package pipeline

import "time"

// ExitCode represents the process exit code returned by the resub CLI.
type ExitCode int

const (
	// ExitSuccess indicates the job completed.
	ExitSuccess ExitCode = 0

	// ExitError indicates a fatal (JobError or ConfigurationError) failure.
	ExitError ExitCode = 1

	// ExitCancelled indicates the job was cancelled before completion. This
	// mirrors the Unix 128+SIGINT convention callers commonly use for
	// cancelled work.
	ExitCancelled ExitCode = 130
)

// Rule is a single literal find/replace instruction.
type Rule struct {
	// ID uniquely identifies the rule within a Ruleset. Used to key
	// per-rule match counts in FileResult and RuleHit.
	ID string

	// Find is the literal (non-regex) text to search for. Must be
	// non-empty; validated at job start by config.ValidateConfig.
	Find string

	// Replace is the literal text that replaces each match of Find.
	Replace string

	// Enabled controls whether this rule applies. A disabled rule keeps
	// its ordinal position in the Ruleset but produces no effect.
	Enabled bool

	// CaseSensitive controls whether Find is matched using exact byte
	// comparison (true) or simple Unicode case-folding (false).
	CaseSensitive bool

	// WholeWord requires that a match not be adjacent to a word character
	// (Unicode letter, digit, or underscore) on either side.
	WholeWord bool
}

// Ruleset is an ordered sequence of Rule. Only Enabled rules apply; the kth
// enabled rule sees the output of all earlier rules in declared order.
type Ruleset []Rule

// Enabled returns the subset of rules with Enabled == true, preserving order.
func (rs Ruleset) Enabled() []Rule {
	out := make([]Rule, 0, len(rs))
	for _, r := range rs {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// FilterConfig controls which directories are descended into and which
// files are accepted during discovery.
type FilterConfig struct {
	// Extensions is a set of lowercase dotted suffixes (e.g. ".go"). An
	// empty set means "accept by default text-extension allow list".
	Extensions []string

	// ExcludePatterns is a sequence of doublestar glob patterns matched
	// against the root-relative, forward-slash path. Always unioned with
	// the built-in default exclusions.
	ExcludePatterns []string

	// MaxFileSize is the maximum accepted file size in bytes.
	MaxFileSize int64

	// MaxDepth is the maximum directory depth to descend. Depth 0 is the
	// root directory's direct children.
	MaxDepth int

	// IncludeHidden allows dotfiles/dot-directories when true.
	IncludeHidden bool

	// RespectGitignore additionally excludes paths matched by any
	// .gitignore file found between the root and the candidate path.
	RespectGitignore bool

	// RespectLocalIgnore additionally excludes paths matched by any
	// .resubignore file, evaluated the same way as .gitignore.
	RespectLocalIgnore bool

	// GitTrackedOnly restricts discovery to paths tracked by `git
	// ls-files` in the root directory.
	GitTrackedOnly bool
}

// JobOptions holds the behavioral knobs for a Job beyond filtering and
// rules.
type JobOptions struct {
	// DryRun computes transformed text and counts but performs no writes.
	DryRun bool

	// CreateBackup writes a `<path>.backup.<timestamp>` copy before
	// rewriting a file.
	CreateBackup bool

	// Concurrency is the maximum number of in-flight FileWorkers. A value
	// <= 0 resolves to min(10, runtime.NumCPU()).
	Concurrency int

	// Encoding is always "utf-8"; retained for forward compatibility with
	// the on-disk JobConfig JSON format (spec.md §6).
	Encoding string

	// ProgressUpdateInterval throttles ProgressEvent emission. Zero
	// resolves to 100ms.
	ProgressUpdateInterval time.Duration

	// QueueDepth bounds the number of discovered-but-not-yet-dispatched
	// FileDescriptors buffered between the Walker and the Scheduler. Zero
	// resolves to 2x Concurrency.
	QueueDepth int
}

// JobConfig is the immutable configuration for one Job: a complete
// instruction set for discovery, rule application, and write behavior.
type JobConfig struct {
	RootDirectory string
	Filter        FilterConfig
	Rules         Ruleset
	Options       JobOptions
}

// FileDescriptor is a single discovered candidate emitted by the Walker and
// consumed exactly once by a FileWorker.
type FileDescriptor struct {
	AbsPath string
	Path    string // relative to JobConfig.RootDirectory, forward-slash separated
	Size    int64
	ModTime time.Time
}

// FileStatus is the terminal state of processing a single file.
type FileStatus string

const (
	StatusModified  FileStatus = "modified"
	StatusUnchanged FileStatus = "unchanged"
	StatusSkipped   FileStatus = "skipped"
	StatusError     FileStatus = "error"
)

// ErrorKind enumerates the per-file failure taxonomy (spec.md §4.4, §7).
type ErrorKind string

const (
	ErrNone             ErrorKind = ""
	ErrNotFound         ErrorKind = "NotFound"
	ErrPermissionDenied ErrorKind = "PermissionDenied"
	ErrTooLarge         ErrorKind = "TooLarge"
	ErrInvalidUTF8      ErrorKind = "InvalidUtf8"
	ErrIO               ErrorKind = "IoError"
	ErrInterrupted      ErrorKind = "Interrupted"
)

// RuleHit records a single match found (and, outside preview, replaced) by
// the RuleEngine.
type RuleHit struct {
	RuleID      string
	ByteOffset  int
	Line        int // 1-based
	Column      int // 1-based, counts Unicode scalar values from line start
	MatchedText string
	Replacement string
}

// FileResult is the per-file outcome of a processed job file.
type FileResult struct {
	Path           string
	Status         FileStatus
	PerRuleCounts  map[string]int
	TotalReplacements int
	DurationMs     int64
	ErrorKind      ErrorKind
	Err            error
}

// JobStats is the Scheduler's aggregate, monotonically-updated view of a
// Job in progress, frozen on completion.
type JobStats struct {
	TotalFiles        int
	ProcessedFiles    int
	ModifiedFiles     int
	TotalReplacements int
	Errors            int
	StartedAt         time.Time
	EndedAt           time.Time
}

// Phase is a Job's coarse lifecycle stage, surfaced on ProgressEvent.
type Phase string

const (
	PhaseDiscovering Phase = "discovering"
	PhaseProcessing  Phase = "processing"
	PhaseFinalizing  Phase = "finalizing"
)

// ProgressEvent is a throttled snapshot of Job progress.
type ProgressEvent struct {
	ProcessedFiles    int
	TotalFiles        int
	ModifiedFiles     int
	TotalReplacements int
	CurrentPath       string
	Phase             Phase
}

// JobState is the Job's terminal or in-flight state (spec.md §4.5 state
// machine).
type JobState string

const (
	StateIdle        JobState = "Idle"
	StateDiscovering JobState = "Discovering"
	StateProcessing  JobState = "Processing"
	StatePaused      JobState = "Paused"
	StateFinalizing  JobState = "Finalizing"
	StateComplete    JobState = "Complete"
	StateCancelled   JobState = "Cancelled"
	StateFailed      JobState = "Failed"
)
