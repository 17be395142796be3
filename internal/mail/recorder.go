package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Recorder is an in-process Transport. It keeps every accepted message and
// optionally logs it; used for local development and tests.
type Recorder struct {
	mu     sync.Mutex
	sent   []Message
	logger *slog.Logger
	err    error
}

// NewRecorder constructs a Recorder. A nil logger disables logging.
func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// FailWith makes subsequent sends return err. FailWith(nil) restores success.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	if r.logger != nil {
		r.logger.InfoContext(ctx, "mail recorded",
			"to", msg.To,
			"subject", msg.Subject,
		)
	}
	return nil
}

// Sent returns a copy of the accepted messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// Last returns the most recently accepted message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Message{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Reset forgets recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
