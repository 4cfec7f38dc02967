package pipeline

// EventKind tags which field of Event is populated, giving callers an
// exhaustively-checkable sum type instead of the ad-hoc event-emitter
// objects a JS/TS source would reach for (see DESIGN.md "Dynamic event
// observer").
type EventKind string

const (
	EventProgress    EventKind = "progress"
	EventFileResult  EventKind = "file_result"
	EventPhaseChange EventKind = "phase_change"
	EventWarning     EventKind = "warning"
	EventError       EventKind = "error"
)

// Event is the single payload type delivered to an ObserverCallback. Exactly
// one field is populated, matching Kind.
type Event struct {
	Kind EventKind

	Progress    *ProgressEvent
	FileResult  *FileResult
	PhaseChange Phase
	Warning     string
	Err         error
}

// ObserverCallback is the sink for Job events (spec.md §6). Implementations
// MUST be non-blocking: a slow observer must not stall the Scheduler. The
// Scheduler may drop ProgressEvent deliveries under load (respecting the
// throttle rule) but must deliver every FileResult exactly once.
type ObserverCallback func(Event)

// NopObserver discards every event. Useful as a default when the caller
// doesn't need progress reporting.
func NopObserver(Event) {}
