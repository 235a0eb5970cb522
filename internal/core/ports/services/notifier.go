package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// Notifier fans events out to subscribers of a topic. Publishing is
// fire-and-forget: implementations must never block the caller or surface
// delivery failures into the workflow that raised the event.
type Notifier interface {
	Publish(ctx context.Context, topic string, event domain.Event)
}

// NoopNotifier discards every event. Used in tests and when the push
// transport is disabled.
type NoopNotifier struct{}

func (NoopNotifier) Publish(context.Context, string, domain.Event) {}
