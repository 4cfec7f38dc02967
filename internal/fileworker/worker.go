// Package fileworker implements the per-file processing unit described in
// spec.md §4.4: read a candidate file, run it through the RuleEngine, and
// -- unless the job is a dry run or nothing changed -- rewrite it atomically.
//
// A Worker is stateless and safe for concurrent use; the Scheduler owns one
// shared Worker and dispatches FileDescriptors to it from a bounded pool of
// goroutines.
package fileworker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/resub/resub/internal/pipeline"
	"github.com/resub/resub/internal/ruleengine"
)

var logger = slog.Default().With("component", "fileworker")

func slogWarnBackup(path string, err error) {
	logger.Warn("backup failed, continuing without it", "path", path, "error", err)
}

// streamingThreshold is the file size above which Process reads and rewrites
// the file line-by-line instead of loading it whole into memory (spec.md
// §4.4 "files above a configurable threshold are processed in streaming
// mode").
const streamingThreshold = 10 * 1024 * 1024 // 10 MiB

// tmpCounter disambiguates concurrent temp files for the same path.
var tmpCounter int64

// Worker applies a Ruleset to a single file.
type Worker struct{}

// New creates a Worker.
func New() *Worker {
	return &Worker{}
}

// Process reads fd.AbsPath, applies rules, and -- unless opts.DryRun or the
// text is byte-identical to the input -- rewrites the file atomically.
// Process never returns an error itself; every failure mode is reported
// through the returned FileResult's ErrorKind (spec.md §4.4, §7) so that one
// file's failure never aborts the job.
func (w *Worker) Process(ctx context.Context, fd pipeline.FileDescriptor, rules pipeline.Ruleset, opts pipeline.JobOptions) pipeline.FileResult {
	start := time.Now()
	result := pipeline.FileResult{Path: fd.Path, PerRuleCounts: map[string]int{}}

	if err := ctx.Err(); err != nil {
		result.Status = pipeline.StatusSkipped
		result.ErrorKind = pipeline.ErrInterrupted
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	info, err := os.Lstat(fd.AbsPath)
	if err != nil {
		return errResult(result, start, err)
	}
	mode := info.Mode().Perm()

	var changed bool
	var counts map[string]int
	var writeErr error

	if info.Size() > streamingThreshold {
		changed, counts, writeErr = w.processStreaming(ctx, fd.AbsPath, mode, rules, opts)
	} else {
		changed, counts, writeErr = w.processBuffered(ctx, fd.AbsPath, mode, rules, opts)
	}

	result.DurationMs = time.Since(start).Milliseconds()

	if writeErr != nil {
		if errors.Is(writeErr, context.Canceled) || errors.Is(writeErr, context.DeadlineExceeded) {
			result.Status = pipeline.StatusSkipped
			result.ErrorKind = pipeline.ErrInterrupted
			return result
		}
		return errResult(result, start, writeErr)
	}

	result.PerRuleCounts = counts
	for _, n := range counts {
		result.TotalReplacements += n
	}

	if !opts.DryRun && changed {
		result.Status = pipeline.StatusModified
	} else {
		result.Status = pipeline.StatusUnchanged
	}

	return result
}

func errResult(result pipeline.FileResult, start time.Time, err error) pipeline.FileResult {
	result.Status = pipeline.StatusError
	result.Err = err
	result.ErrorKind = classifyErr(err)
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

func classifyErr(err error) pipeline.ErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return pipeline.ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return pipeline.ErrPermissionDenied
	case errors.Is(err, errInvalidUTF8):
		return pipeline.ErrInvalidUTF8
	case errors.Is(err, errTooLarge):
		return pipeline.ErrTooLarge
	default:
		return pipeline.ErrIO
	}
}

var (
	errInvalidUTF8 = errors.New("fileworker: file is not valid UTF-8")
	errTooLarge    = errors.New("fileworker: file exceeds the configured maximum size")
)

// processBuffered handles the common case: the whole file fits comfortably
// in memory, so it is read once, transformed once, and (if changed)
// rewritten once.
func (w *Worker) processBuffered(ctx context.Context, absPath string, mode fs.FileMode, rules pipeline.Ruleset, opts pipeline.JobOptions) (bool, map[string]int, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return false, nil, err
	}
	if !utf8.Valid(raw) {
		return false, nil, errInvalidUTF8
	}

	original := string(raw)
	transformed, counts := ruleengine.Apply(original, rules)
	changed := transformed != original

	if opts.DryRun || !changed {
		return changed, counts, nil
	}

	if err := ctx.Err(); err != nil {
		return changed, counts, err
	}

	if opts.CreateBackup {
		if err := writeBackup(absPath, raw, mode); err != nil {
			slogWarnBackup(absPath, err)
		}
	}

	if err := atomicRewrite(absPath, []byte(transformed), mode); err != nil {
		return changed, counts, err
	}
	return changed, counts, nil
}

// processStreaming handles large files line-by-line so memory use stays
// bounded by a single line's length rather than the whole file (spec.md
// §4.4). The final line of a file without a trailing newline is handled as
// a partial line with no newline appended back.
func (w *Worker) processStreaming(ctx context.Context, absPath string, mode fs.FileMode, rules pipeline.Ruleset, opts pipeline.JobOptions) (bool, map[string]int, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return false, nil, err
	}
	defer f.Close()

	counts := make(map[string]int)
	changed := false

	var tmpFile *os.File
	var tmpPath string
	if !opts.DryRun {
		tmpPath = tempPath(absPath)
		tmpFile, err = os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_EXCL, mode)
		if err != nil {
			return false, nil, err
		}
		defer func() {
			if tmpFile != nil {
				tmpFile.Close()
				os.Remove(tmpPath)
			}
		}()
	}

	reader := bufio.NewReaderSize(f, 64*1024)
	var writer *bufio.Writer
	if tmpFile != nil {
		writer = bufio.NewWriterSize(tmpFile, 64*1024)
	}

	lineNo := 0
	for {
		lineNo++
		if lineNo%256 == 0 {
			if err := ctx.Err(); err != nil {
				return changed, counts, err
			}
		}

		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			hasNewline := strings.HasSuffix(line, "\n")
			content := line
			if hasNewline {
				content = strings.TrimSuffix(line, "\n")
			}
			if !utf8.ValidString(content) {
				return changed, counts, errInvalidUTF8
			}

			transformed, lineCounts := ruleengine.Apply(content, rules)
			for id, n := range lineCounts {
				counts[id] += n
			}
			if transformed != content {
				changed = true
			}

			if writer != nil {
				if _, err := writer.WriteString(transformed); err != nil {
					return changed, counts, err
				}
				if hasNewline {
					if _, err := writer.WriteString("\n"); err != nil {
						return changed, counts, err
					}
				}
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return changed, counts, readErr
		}
	}

	if opts.DryRun || !changed {
		return changed, counts, nil
	}

	if opts.CreateBackup {
		if raw, err := os.ReadFile(absPath); err == nil {
			if err := writeBackup(absPath, raw, mode); err != nil {
				slogWarnBackup(absPath, err)
			}
		}
	}

	if err := writer.Flush(); err != nil {
		return changed, counts, err
	}
	if err := tmpFile.Sync(); err != nil {
		return changed, counts, err
	}
	if err := tmpFile.Close(); err != nil {
		return changed, counts, err
	}
	tmpFile = nil // prevent the deferred cleanup from removing the file we're about to rename into place

	if err := finishRewrite(tmpPath, absPath, mode); err != nil {
		os.Remove(tmpPath)
		return changed, counts, err
	}

	return changed, counts, nil
}

// tempPath returns a sibling temp file name for absPath, unique across
// concurrent workers and content, so two workers racing on distinct files
// (or a retried attempt on the same file) never collide.
func tempPath(absPath string) string {
	n := atomic.AddInt64(&tmpCounter, 1)
	h := xxh3.HashString(absPath)
	return filepath.Join(filepath.Dir(absPath), fmt.Sprintf(".%s.tmp.%x.%d", filepath.Base(absPath), h, n))
}

// atomicRewrite writes data to a temp file beside absPath, syncs it, and
// renames it over absPath. Rename is atomic on the same filesystem on every
// platform resub targets; if it fails (e.g. cross-device temp dirs),
// finishRewrite falls back to a non-atomic copy-then-remove with a logged
// warning.
func atomicRewrite(absPath string, data []byte, mode fs.FileMode) error {
	tmpPath := tempPath(absPath)

	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_EXCL, mode)
	if err != nil {
		return err
	}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := finishRewrite(tmpPath, absPath, mode); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// finishRewrite renames tmpPath over absPath, falling back to a
// copy-then-unlink if the platform or filesystem layout makes the rename
// non-atomic (e.g. EXDEV across a bind mount).
func finishRewrite(tmpPath, absPath string, mode fs.FileMode) error {
	renameErr := os.Rename(tmpPath, absPath)
	if renameErr == nil {
		return preserveMetadata(absPath, mode)
	}

	logger.Warn("rename failed, falling back to non-atomic copy-then-remove",
		"path", absPath, "error", renameErr)

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(absPath, data, mode); err != nil {
		return err
	}
	os.Remove(tmpPath)
	return preserveMetadata(absPath, mode)
}

func preserveMetadata(absPath string, mode fs.FileMode) error {
	return os.Chmod(absPath, mode)
}

// writeBackup copies the original content to
// <path>.backup.<RFC3339-with-colons-replaced-by-hyphens> before a rewrite.
// Backup failures never fail the job (spec.md §4.4): the caller downgrades
// them to a warning log.
func writeBackup(absPath string, original []byte, mode fs.FileMode) error {
	return os.WriteFile(backupPath(absPath), original, mode)
}

func backupPath(absPath string) string {
	stamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	return absPath + ".backup." + stamp
}
