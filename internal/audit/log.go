package audit

import (
	"context"
	"log/slog"
)

// LogSink writes audit events to a structured logger and keeps nothing.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit event",
		"action", event.Action,
		"timestamp", event.Timestamp,
		"account_id", event.AccountID,
		"request_id", event.RequestID,
		"client_ip", event.ClientIP,
		"device", event.Device,
		"reason", event.Reason,
	)
	return nil
}
