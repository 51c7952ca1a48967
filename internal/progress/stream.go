// Package progress models long-running, multi-phase operations as lazy
// sequences of tagged status events. A stream yields zero or more
// non-terminal events and is closed by exactly one terminal event:
// complete (with a result payload) or error (with a message).
package progress

import (
	"context"
	"encoding/json"
)

// Status tags one progress event.
type Status string

// Repository-analysis statuses.
const (
	StatusValidating        Status = "validating"
	StatusSpinningUpSandbox Status = "spinning_up_sandbox"
	StatusCloningRepository Status = "cloning_repository"
	StatusExecutingCommand  Status = "executing_command"
	StatusAnalyzing         Status = "analyzing"
	StatusGeneratingReport  Status = "generating_report"
)

// Web-research statuses.
const (
	StatusInitializing    Status = "initializing"
	StatusSearching       Status = "searching"
	StatusScraping        Status = "scraping"
	StatusAnalyzingResult Status = "analyzing_result"
	StatusSynthesizing    Status = "synthesizing"
)

// Terminal statuses, shared by both state machines.
const (
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Event is one item in a progress stream. Only the fields relevant to the
// variant are populated.
type Event struct {
	Status  Status          `json:"status"`
	Message string          `json:"message"`
	Command string          `json:"command,omitempty"`
	Output  string          `json:"output,omitempty"`
	URL     string          `json:"url,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Terminal reports whether this event closes the stream.
func (e Event) Terminal() bool {
	return e.Status == StatusComplete || e.Status == StatusError
}

// Complete builds a terminal success event carrying the result payload.
func Complete(message string, result json.RawMessage) Event {
	return Event{Status: StatusComplete, Message: message, Result: result}
}

// Errorf builds a terminal error event.
func Errorf(message string) Event {
	return Event{Status: StatusError, Message: message, Error: message}
}

// Emitter is the producer side of a stream. Emit blocks until the consumer
// takes the event or the stream is abandoned.
type Emitter struct {
	ctx context.Context
	ch  chan<- Event
}

// Emit sends a non-terminal event. It returns a non-nil error once the
// consumer has abandoned the stream, at which point the producer should
// unwind; its deferred cleanup still runs.
func (e *Emitter) Emit(ev Event) error {
	select {
	case e.ch <- ev:
		return nil
	case <-e.ctx.Done():
		return e.ctx.Err()
	}
}

// Producer performs the operation, emitting non-terminal events as it goes.
// It returns the terminal complete event, or an error that the stream turns
// into the terminal error event. Resource cleanup belongs in the producer's
// defers, so it fires on early abandonment as well as normal completion.
type Producer func(ctx context.Context, em *Emitter) (Event, error)

// Stream is the consumer side: a finite, non-restartable event sequence.
type Stream struct {
	ch     chan Event
	cancel context.CancelFunc
}

// Run starts the producer in its own goroutine and returns the stream.
// Exactly one terminal event is delivered, after which the channel closes.
func Run(ctx context.Context, fn Producer) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		ch:     make(chan Event, 16),
		cancel: cancel,
	}
	em := &Emitter{ctx: ctx, ch: s.ch}

	go func() {
		defer close(s.ch)
		defer cancel()

		final, err := fn(ctx, em)
		if err != nil {
			final = Errorf(err.Error())
		} else if !final.Terminal() {
			final = Errorf("operation ended without a result")
		}

		// Best effort: if the consumer is gone the terminal event is dropped.
		select {
		case s.ch <- final:
		case <-ctx.Done():
		}
	}()

	return s
}

// Events returns the event channel. It is closed after the terminal event.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Close abandons the stream early. The producer's context is cancelled and
// any remaining events are drained so the producer never blocks.
func (s *Stream) Close() {
	s.cancel()
	go func() {
		for range s.ch {
		}
	}()
}

// Wait consumes the whole stream and returns the terminal event, for
// callers that only want the final value.
func (s *Stream) Wait() Event {
	var last Event
	for ev := range s.ch {
		last = ev
	}
	if !last.Terminal() {
		return Errorf("stream ended without a terminal event")
	}
	return last
}
