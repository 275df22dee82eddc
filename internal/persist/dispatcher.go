// Package persist applies session events to a durable store in the background.
package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rcliao/pair-assessment/internal/session"
	"github.com/rcliao/pair-assessment/internal/store"
)

// DefaultQueueSize bounds the number of events waiting for the worker.
const DefaultQueueSize = 256

// Failure is a non-fatal persistence warning. It wraps session.ErrPersistence.
type Failure struct {
	Event session.Event
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("persist %s for %s: %v", f.Event.Kind, f.Event.AssessmentID, f.Err)
}

func (f *Failure) Unwrap() []error {
	return []error{session.ErrPersistence, f.Err}
}

// Dispatcher is a session.Notifier that writes events to an Adapter from a
// single worker goroutine, in order. Failed writes are logged and recorded,
// never retried.
type Dispatcher struct {
	adapter store.Adapter
	log     *zap.Logger
	queue   chan session.Event
	done    chan struct{}

	mu       sync.Mutex
	closed   bool
	failures []*Failure
}

var _ session.Notifier = (*Dispatcher)(nil)

// Options configures a Dispatcher.
type Options struct {
	QueueSize int
	Logger    *zap.Logger
}

// NewDispatcher starts the worker. Call Close to drain it.
func NewDispatcher(adapter store.Adapter, opts Options) *Dispatcher {
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		adapter: adapter,
		log:     log,
		queue:   make(chan session.Event, size),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify enqueues e without blocking. Events for memory-only sessions (no
// assessment id) are dropped. A full queue records a failure instead.
func (d *Dispatcher) Notify(e session.Event) {
	if e.AssessmentID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.recordLocked(e, errors.New("dispatcher closed"))
		return
	}
	select {
	case d.queue <- e:
	default:
		d.recordLocked(e, errors.New("queue full"))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	ctx := context.Background()
	for e := range d.queue {
		if err := d.apply(ctx, e); err != nil {
			d.mu.Lock()
			d.recordLocked(e, err)
			d.mu.Unlock()
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, e session.Event) error {
	switch e.Kind {
	case session.EventScore:
		return d.adapter.UpsertScore(ctx, e.AssessmentID, e.Partner, e.AttributeID, e.Value)
	case session.EventCompletion:
		return d.adapter.SetCompletion(ctx, e.AssessmentID, e.Partner, e.Done)
	case session.EventReveal:
		return d.adapter.SetResultsRevealed(ctx, e.AssessmentID, e.Revealed)
	case session.EventNames:
		return d.adapter.SetPartnerNames(ctx, e.AssessmentID, e.Names)
	}
	return fmt.Errorf("unknown event kind %q", e.Kind)
}

func (d *Dispatcher) recordLocked(e session.Event, err error) {
	f := &Failure{Event: e, Err: err}
	d.failures = append(d.failures, f)
	d.log.Warn("persistence failed, continuing in memory",
		zap.String("kind", string(e.Kind)),
		zap.String("assessment_id", e.AssessmentID),
		zap.Error(err))
}

// Failures returns the warnings recorded so far.
func (d *Dispatcher) Failures() []*Failure {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Failure, len(d.failures))
	copy(out, d.failures)
	return out
}

// Close stops accepting events, waits for queued writes to finish and
// returns the recorded failures joined, or nil. It does not close the adapter.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done

	fs := d.Failures()
	if len(fs) == 0 {
		return nil
	}
	errs := make([]error, len(fs))
	for i, f := range fs {
		errs[i] = f
	}
	return errors.Join(errs...)
}
