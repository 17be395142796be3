package audit

import (
	"context"
	"errors"
	"time"
)

// ErrQueueFull is returned by a queued publisher when the worker lags behind.
var ErrQueueFull = errors.New("audit queue full")

// Publisher captures structured audit events. It is append-only; events go
// straight to the sink or, when queued, through a channel drained by a Worker.
type Publisher struct {
	sink  Sink
	queue chan<- Event
	clock func() time.Time
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithQueue hands events to queue instead of writing the sink inline.
func WithQueue(queue chan<- Event) PublisherOption {
	return func(p *Publisher) {
		p.queue = queue
	}
}

// WithClock sets the clock used to stamp events that carry no timestamp.
func WithClock(clock func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{sink: sink, clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if p.queue == nil {
		return p.sink.Append(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}
