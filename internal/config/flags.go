package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// DefaultMaxFileSizeFlag is the default --max-file-size value.
const DefaultMaxFileSizeFlag = "10MB"

// FlagValues collects all parsed global flag values from the CLI. This struct
// is populated by BindFlags and passed to the config resolution pipeline as
// the highest-precedence layer.
type FlagValues struct {
	Dir                string
	RulesFile          string
	Extensions         []string // file extensions (without leading dots)
	ExcludePatterns    []string // exclude glob patterns
	MaxDepth           int
	IncludeHidden      bool
	DryRun             bool
	CreateBackup       bool
	Concurrency        int
	ProgressIntervalMs int
	GitTrackedOnly     bool
	RespectGitignore   bool
	RespectLocalIgnore bool
	MaxFileSize        int64 // bytes, parsed from maxFileSizeRaw
	Verbose            bool
	Quiet              bool
}

// maxFileSizeRaw holds the raw string value for --max-file-size before
// parsing. This is a package-level variable because Cobra needs a string
// target for binding; it is parsed into FlagValues.MaxFileSize during
// validation.
var maxFileSizeRaw string

// BindFlags registers all global persistent flags on the given Cobra command
// and returns a FlagValues pointer that will be populated when the command is
// executed. Callers should access the returned struct after flag parsing.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&fv.Dir, "dir", "d", ".", "root directory to scan")
	pf.StringVarP(&fv.RulesFile, "rules", "r", "", "path to the JSON job configuration file")
	pf.StringArrayVar(&fv.Extensions, "ext", nil, "accepted file extension (repeatable, e.g. --ext go --ext txt)")
	pf.StringArrayVar(&fv.ExcludePatterns, "exclude", nil, "exclude glob pattern (repeatable)")
	pf.IntVar(&fv.MaxDepth, "max-depth", 64, "maximum directory depth to descend")
	pf.BoolVar(&fv.IncludeHidden, "include-hidden", false, "include dotfiles and dot-directories")
	pf.BoolVar(&fv.DryRun, "dry-run", false, "compute counts but write nothing")
	pf.BoolVar(&fv.CreateBackup, "backup", false, "write a timestamped backup before rewriting a file")
	pf.IntVar(&fv.Concurrency, "concurrency", 0, "maximum number of in-flight file workers (0 = auto)")
	pf.IntVar(&fv.ProgressIntervalMs, "progress-interval", 100, "progress event throttle, in milliseconds")
	pf.BoolVar(&fv.GitTrackedOnly, "git-tracked-only", false, "only scan files tracked by git")
	pf.BoolVar(&fv.RespectGitignore, "respect-gitignore", true, "exclude .gitignore matches")
	pf.BoolVar(&fv.RespectLocalIgnore, "respect-local-ignore", true, "exclude .resubignore matches")
	pf.StringVar(&maxFileSizeRaw, "max-file-size", DefaultMaxFileSizeFlag, "skip files larger than threshold (e.g. 500KB, 10MB)")
	pf.BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all output except errors")

	return fv
}

// ValidateFlags checks the parsed flag values for correctness and mutual
// exclusion. It also applies environment variable fallbacks and normalizes
// values. Call this from PersistentPreRunE after Cobra has parsed the flags.
func ValidateFlags(fv *FlagValues, cmd *cobra.Command) error {
	applyEnvOverrides(fv, cmd)

	if fv.Verbose && fv.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	info, err := os.Stat(fv.Dir)
	if err != nil {
		return fmt.Errorf("--dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("--dir: %s is not a directory", fv.Dir)
	}

	if fv.MaxDepth < 0 {
		return fmt.Errorf("--max-depth: must be non-negative, got %d", fv.MaxDepth)
	}

	if fv.Concurrency < 0 {
		return fmt.Errorf("--concurrency: must be non-negative, got %d", fv.Concurrency)
	}

	size, err := ParseSize(maxFileSizeRaw)
	if err != nil {
		return fmt.Errorf("--max-file-size: %w", err)
	}
	fv.MaxFileSize = size

	// Normalize --ext: strip leading dots
	for i, ext := range fv.Extensions {
		fv.Extensions[i] = strings.TrimLeft(ext, ".")
	}

	return nil
}

// applyEnvOverrides applies environment variable fallbacks for flags that were
// not explicitly set on the command line. The prefix is RESUB_.
func applyEnvOverrides(fv *FlagValues, cmd *cobra.Command) {
	envMap := map[string]struct {
		flagName string
		setter   func(string)
	}{
		EnvRootDirectory: {"dir", func(v string) { fv.Dir = v }},
		EnvRulesFile:     {"rules", func(v string) { fv.RulesFile = v }},
	}

	for env, o := range envMap {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if !cmd.Flags().Changed(o.flagName) {
			o.setter(v)
		}
	}

	if v := os.Getenv(EnvMaxDepth); v != "" && !cmd.Flags().Changed("max-depth") {
		if n, err := strconv.Atoi(v); err == nil {
			fv.MaxDepth = n
		}
	}
	if v := os.Getenv(EnvConcurrency); v != "" && !cmd.Flags().Changed("concurrency") {
		if n, err := strconv.Atoi(v); err == nil {
			fv.Concurrency = n
		}
	}
	if v := os.Getenv(EnvDryRun); v != "" && !cmd.Flags().Changed("dry-run") {
		if b, err := strconv.ParseBool(v); err == nil {
			fv.DryRun = b
		}
	}
	if v := os.Getenv(EnvCreateBackup); v != "" && !cmd.Flags().Changed("backup") {
		if b, err := strconv.ParseBool(v); err == nil {
			fv.CreateBackup = b
		}
	}
	if v := os.Getenv(EnvGitTrackedOnly); v != "" && !cmd.Flags().Changed("git-tracked-only") {
		if b, err := strconv.ParseBool(v); err == nil {
			fv.GitTrackedOnly = b
		}
	}
}

// ParseSize parses a human-readable size string into bytes. It supports KB, MB,
// and GB suffixes (case-insensitive). Plain numbers without a suffix are treated
// as bytes. KB = 1024, MB = 1048576, GB = 1073741824.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	upper := strings.ToUpper(s)

	var suffix string
	var multiplier int64

	switch {
	case strings.HasSuffix(upper, "GB"):
		suffix = "GB"
		multiplier = 1024 * 1024 * 1024
	case strings.HasSuffix(upper, "MB"):
		suffix = "MB"
		multiplier = 1024 * 1024
	case strings.HasSuffix(upper, "KB"):
		suffix = "KB"
		multiplier = 1024
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		if n < 0 {
			return 0, fmt.Errorf("size must be non-negative: %q", s)
		}
		return n, nil
	}

	numStr := strings.TrimSpace(s[:len(s)-len(suffix)])
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(numStr, 64)
		if ferr != nil {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		if f < 0 {
			return 0, fmt.Errorf("size must be non-negative: %q", s)
		}
		return int64(f * float64(multiplier)), nil
	}
	if n < 0 {
		return 0, fmt.Errorf("size must be non-negative: %q", s)
	}
	return n * multiplier, nil
}
