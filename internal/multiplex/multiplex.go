// Package multiplex implements the single-threaded readiness loop that
// drives the server.
//
// Sources (listening sockets, client sessions, the discovery socket) post
// readiness events onto the loop from their reader goroutines; the loop
// invokes each source's registered callback for every event, one at a time,
// on the dispatching goroutine. All game logic runs inside these callbacks,
// so the state machine never needs a lock. Callbacks must not block.
package multiplex

import "context"

// Kind distinguishes the readiness conditions a source can report.
type Kind uint8

const (
	// Readable indicates the source produced data, carried in Event.Data.
	Readable Kind = iota
	// HangUp indicates the source closed cleanly.
	HangUp
	// Errored indicates the source failed; Event.Err carries the cause.
	Errored
)

// Event is a single readiness notification from a source.
type Event struct {
	Kind Kind
	// Data is the payload for Readable events. Its concrete type is an
	// agreement between the poster and the callback (a frame payload for
	// sessions, an accepted connection for listeners, a datagram for the
	// discovery responder).
	Data interface{}
	Err  error
}

// Callback handles events for one registered source. Callbacks run on the
// dispatching goroutine and may register or unregister sources; changes are
// visible before the next dispatch.
type Callback func(source interface{}, ev Event)

type sourcedEvent struct {
	source interface{}
	event  Event
}

// Loop is the dispatcher. Register and Unregister must only be called from
// the dispatching goroutine (i.e. from inside a callback) or before Run is
// started.
type Loop struct {
	events    chan sourcedEvent
	callbacks map[interface{}]Callback
}

func NewLoop(queueSize int) *Loop {
	return &Loop{
		events:    make(chan sourcedEvent, queueSize),
		callbacks: make(map[interface{}]Callback),
	}
}

// Register associates a callback with a source. Re-registering a source
// replaces its callback.
func (l *Loop) Register(source interface{}, cb Callback) {
	l.callbacks[source] = cb
}

// Unregister removes a source. Events already queued for it are dropped at
// dispatch time.
func (l *Loop) Unregister(source interface{}) {
	delete(l.callbacks, source)
}

// Post enqueues an event for a source. It is safe to call from any goroutine
// and is the only part of the loop reader goroutines may touch.
func (l *Loop) Post(source interface{}, ev Event) {
	l.events <- sourcedEvent{source: source, event: ev}
}

// Dispatch blocks until at least one event is available (or ctx is done),
// then drains and dispatches every event queued at that point. Events for
// unregistered sources are discarded.
func (l *Loop) Dispatch(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-l.events:
		l.dispatchOne(ev)
	}

	for {
		select {
		case ev := <-l.events:
			l.dispatchOne(ev)
		default:
			return nil
		}
	}
}

// Run dispatches until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Dispatch(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop) dispatchOne(ev sourcedEvent) {
	cb, ok := l.callbacks[ev.source]
	if !ok {
		return
	}
	cb(ev.source, ev.event)
}
