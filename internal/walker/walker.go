package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/resub/resub/internal/pathfilter"
	"github.com/resub/resub/internal/pipeline"
)

// DiscoveryError is a per-directory-entry walk failure that does not abort
// the walk (spec.md §4.2, §7 DiscoveryError).
type DiscoveryError struct {
	Path string
	Err  error
}

func (e DiscoveryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Config bundles everything the Walker needs beyond the JobConfig itself:
// the composed ignorer chain and an optional git-tracked set, both built by
// the caller (see pathfilter.BuildIgnorer) so Walker stays a pure traversal
// engine.
type Config struct {
	Root           string
	Filter         *pathfilter.PathFilter
	Ignorer        pathfilter.Ignorer // may be nil
	GitTrackedOnly bool
	GitTracked     map[string]bool // only consulted when GitTrackedOnly is true
	QueueDepth     int
}

// Walker enumerates candidate files under a root directory (spec.md §4.2).
type Walker struct {
	logger *slog.Logger
}

// New creates a Walker.
func New() *Walker {
	return &Walker{logger: slog.Default().With("component", "walker")}
}

// Walk traverses cfg.Root depth-first and emits matching FileDescriptors on
// the returned channel, in lexicographic basename order within each
// directory (filepath.WalkDir's native order). Both returned channels are
// closed once the walk completes or ctx is cancelled. The candidates channel
// is buffered to cfg.QueueDepth, giving the Walker room to run ahead of slow
// consumers while still applying backpressure once the buffer fills
// (spec.md §5 "bounded by a work queue of configurable depth").
func (w *Walker) Walk(ctx context.Context, cfg Config) (<-chan pipeline.FileDescriptor, <-chan DiscoveryError) {
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = 1
	}
	out := make(chan pipeline.FileDescriptor, depth)
	errs := make(chan DiscoveryError, depth)

	go func() {
		defer close(out)
		defer close(errs)
		w.walk(ctx, cfg, out, errs)
	}()

	return out, errs
}

func (w *Walker) walk(ctx context.Context, cfg Config, out chan<- pipeline.FileDescriptor, errs chan<- DiscoveryError) {
	root := cfg.Root

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			w.logger.Debug("walk error", "path", path, "error", walkErr)
			select {
			case errs <- DiscoveryError{Path: path, Err: walkErr}:
			case <-ctx.Done():
			}
			return nil // tolerate and continue
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		depth := strings.Count(relPath, "/")
		isDir := d.IsDir()

		if isDir {
			if cfg.Filter.ClassifyDirectory(relPath, depth) == pathfilter.Skip {
				return fs.SkipDir
			}
			if cfg.Ignorer != nil && cfg.Ignorer.IsIgnored(relPath, true) {
				return fs.SkipDir
			}
			return nil
		}

		if cfg.Ignorer != nil && cfg.Ignorer.IsIgnored(relPath, false) {
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 {
			w.logger.Debug("symlink skipped", "path", relPath)
			return nil
		}

		if cfg.GitTrackedOnly && !cfg.GitTracked[relPath] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			select {
			case errs <- DiscoveryError{Path: relPath, Err: err}:
			case <-ctx.Done():
			}
			return nil
		}

		decision := cfg.Filter.ClassifyFile(relPath, info.Size())
		if decision != pathfilter.Include {
			return nil
		}

		bin, binErr := isBinary(path)
		if binErr != nil {
			// Can't determine; let FileWorker's UTF-8 decode be authoritative.
			w.logger.Debug("binary sniff error, including anyway", "path", relPath, "error", binErr)
		} else if bin {
			w.logger.Debug("binary content skipped", "path", relPath)
			return nil
		}

		fd := pipeline.FileDescriptor{
			AbsPath: path,
			Path:    relPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		select {
		case out <- fd:
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})
}
