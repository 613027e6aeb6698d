package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// Events emitted to the frontend.
const (
	EventViewChanged    = "table:view-changed"    // data: domain.ViewState
	EventExternalChange = "table:external-change" // data: {"path": string}
	EventSnapshotTaken  = "table:snapshot-taken"  // data: domain.Snapshot
)

// EventEmitter is an interface for emitting events to the frontend.
// The app layer implements this by delegating to wailsRuntime.EventsEmit;
// MCP mode passes a no-op emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Last returns the most recent event, or a zero value when none was emitted.
func (m *MockEmitter) Last() EmittedEvent {
	if len(m.Events) == 0 {
		return EmittedEvent{}
	}
	return m.Events[len(m.Events)-1]
}
