// Package scheduler implements the Job orchestrator described in spec.md
// §4.5: it discovers candidate files with a walker.Walker, dispatches them
// to a bounded pool of fileworker.Worker goroutines via
// golang.org/x/sync/errgroup, and aggregates their
// FileResults into a single JobStats snapshot while emitting throttled
// ProgressEvents to the caller's ObserverCallback.
package scheduler

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/resub/resub/internal/fileworker"
	"github.com/resub/resub/internal/pathfilter"
	"github.com/resub/resub/internal/pipeline"
	"github.com/resub/resub/internal/walker"
)

const defaultProgressInterval = 100 * time.Millisecond

// Scheduler runs one Job at a time per instance; construct a fresh Scheduler
// (or reuse one across sequential Run calls) per invocation.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	state   pipeline.JobState
	paused  chan struct{} // closed while NOT paused; swapped for a fresh blocked channel on pause()
	cancel  context.CancelFunc
}

// New creates a Scheduler ready to Run a Job.
func New() *Scheduler {
	s := &Scheduler{
		logger: slog.Default().With("component", "scheduler"),
		state:  pipeline.StateIdle,
	}
	s.paused = closedChan()
	return s
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// State returns the Scheduler's current JobState.
func (s *Scheduler) State() pipeline.JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st pipeline.JobState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Pause blocks new file dispatches until Resume is called. In-flight workers
// finish their current file; no new ones are started.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != pipeline.StateProcessing {
		return
	}
	s.paused = make(chan struct{})
	s.state = pipeline.StatePaused
}

// pauseGate returns the current pause gate channel under the mutex, so
// readers never observe a torn update from Pause/Resume.
func (s *Scheduler) pauseGate() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Resume releases a paused Scheduler.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != pipeline.StatePaused {
		return
	}
	close(s.paused)
	s.state = pipeline.StateProcessing
}

// Cancel stops a running Job. Already-dispatched FileWorkers finish (or
// abort per their own context checks); no further files are dispatched.
// Cancellation is not itself a failure: Run returns a JobStats reflecting
// partial completion and a nil error (spec.md §5).
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run executes a complete Job: discovery, dispatch, aggregation. It blocks
// until every discovered file has been processed, the context is cancelled,
// or Cancel is called. The returned JobStats is always populated, even on
// cancellation.
func (s *Scheduler) Run(ctx context.Context, job pipeline.JobConfig, observer pipeline.ObserverCallback) (pipeline.JobStats, error) {
	if observer == nil {
		observer = pipeline.NopObserver
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	stats := pipeline.JobStats{StartedAt: time.Now()}

	ignorer, gitTracked, err := pathfilter.BuildIgnorer(job.RootDirectory, job.Filter)
	if err != nil {
		s.setState(pipeline.StateFailed)
		return stats, pipeline.NewError("building ignore chain", err)
	}

	concurrency := job.Options.Concurrency
	if concurrency <= 0 {
		concurrency = min(10, runtime.NumCPU())
	}
	queueDepth := job.Options.QueueDepth
	if queueDepth <= 0 {
		queueDepth = 2 * concurrency
	}
	progressInterval := job.Options.ProgressUpdateInterval
	if progressInterval <= 0 {
		progressInterval = defaultProgressInterval
	}

	s.setState(pipeline.StateDiscovering)
	observer(pipeline.Event{Kind: pipeline.EventPhaseChange, PhaseChange: pipeline.PhaseDiscovering})

	w := walker.New()
	candidates, discoveryErrs := w.Walk(runCtx, walker.Config{
		Root:           job.RootDirectory,
		Filter:         pathfilter.New(job.Filter),
		Ignorer:        ignorer,
		GitTrackedOnly: job.Filter.GitTrackedOnly,
		GitTracked:     gitTracked,
		QueueDepth:     queueDepth,
	})

	go func() {
		for de := range discoveryErrs {
			s.logger.Debug("discovery error", "path", de.Path, "error", de.Err)
			observer(pipeline.Event{Kind: pipeline.EventWarning, Warning: de.Error()})
		}
	}()

	s.setState(pipeline.StateProcessing)
	observer(pipeline.Event{Kind: pipeline.EventPhaseChange, PhaseChange: pipeline.PhaseProcessing})

	results := make(chan pipeline.FileResult, queueDepth)
	worker := fileworker.New()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(concurrency)

	var discovered int64

	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		for fd := range candidates {
			atomic.AddInt64(&discovered, 1)

			select {
			case <-s.pauseGate():
			case <-gctx.Done():
				return
			}

			fd := fd
			g.Go(func() error {
				r := worker.Process(gctx, fd, job.Rules, job.Options)
				select {
				case results <- r:
				case <-gctx.Done():
				}
				return nil
			})
		}
	}()

	go func() {
		<-dispatchDone
		g.Wait()
		close(results)
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	var lastPath string
	var dirty bool

	for r := range results {
		stats.TotalFiles = int(atomic.LoadInt64(&discovered))
		stats.ProcessedFiles++
		stats.TotalReplacements += r.TotalReplacements
		if r.Status == pipeline.StatusModified {
			stats.ModifiedFiles++
		}
		if r.Status == pipeline.StatusError {
			stats.Errors++
		}
		lastPath = r.Path
		dirty = true

		observer(pipeline.Event{Kind: pipeline.EventFileResult, FileResult: &r})

		select {
		case <-ticker.C:
			if dirty {
				observer(pipeline.Event{Kind: pipeline.EventProgress, Progress: &pipeline.ProgressEvent{
					ProcessedFiles:    stats.ProcessedFiles,
					TotalFiles:        stats.TotalFiles,
					ModifiedFiles:     stats.ModifiedFiles,
					TotalReplacements: stats.TotalReplacements,
					CurrentPath:       lastPath,
					Phase:             pipeline.PhaseProcessing,
				}})
				dirty = false
			}
		default:
		}
	}

	s.setState(pipeline.StateFinalizing)
	observer(pipeline.Event{Kind: pipeline.EventPhaseChange, PhaseChange: pipeline.PhaseFinalizing})

	stats.EndedAt = time.Now()

	if runCtx.Err() != nil && ctx.Err() == nil {
		// Cancelled via Cancel(), not via the parent context: still a clean,
		// non-error return (spec.md §5).
		s.setState(pipeline.StateCancelled)
		return stats, nil
	}
	if ctx.Err() != nil {
		s.setState(pipeline.StateCancelled)
		return stats, nil
	}

	s.setState(pipeline.StateComplete)
	return stats, nil
}
