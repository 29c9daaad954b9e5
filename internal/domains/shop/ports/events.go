package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

// EventPublisher dispatches domain events after the unit of work that raised them has committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, ...domain.Event) error { return nil }

// NoopEventPublisher drops every event.
var NoopEventPublisher EventPublisher = noopEventPublisher{}
