package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

var _ ports.EventPublisher = (*EventLog)(nil)

// EventLog records published events in order.
type EventLog struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewEventLog constructs an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Publish(_ context.Context, events ...domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
	return nil
}

// Events returns a copy of everything published so far.
func (l *EventLog) Events() []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Event(nil), l.events...)
}

// Names lists the event names in publication order.
func (l *EventLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.events))
	for _, event := range l.events {
		names = append(names, event.EventName())
	}
	return names
}

func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
