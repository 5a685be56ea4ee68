package app

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. It is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, eventType string, payload any) error {
	slog.Info("event", "type", eventType, "payload", payload)
	return nil
}

// publish sends an event on a context detached from the caller's cancellation, so a
// canceled request still records what happened.
func publish(ctx context.Context, events EventPublisher, eventType string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(context.WithoutCancel(ctx), eventType, payload); err != nil {
		slog.Warn("publish event failed", "type", eventType, "error", err)
	}
}
