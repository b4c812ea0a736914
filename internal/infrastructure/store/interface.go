package store

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned when two writers race to append the same
// version of an aggregate.
var ErrVersionConflict = errors.New("event version conflict")

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(ctx context.Context, aggregateID string) ([]Event, error)
	// GetEventsFromVersion returns events with a version strictly greater than fromVersion
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) ([]Event, error)
	GetAllEvents(ctx context.Context) ([]Event, error)

	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	// GetSnapshot returns nil, nil when no snapshot exists
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
}

// Publisher forwards stored events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}
