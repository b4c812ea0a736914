package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/moringa-store/internal/infrastructure/store"
)

// Aggregate defines the interface for event-sourced aggregates
type Aggregate interface {
	GetID() string
	GetVersion() int
	ApplyEvent(store.Event) error
}

// LoadAggregate loads an aggregate by replaying events, using snapshot if available.
// Returns the aggregate, a boolean indicating if data was found, and any error
func LoadAggregate[T Aggregate](
	ctx context.Context,
	eventStore store.EventStoreInterface,
	id string,
	newAggregate func() T,
) (T, bool, error) {
	var zero T
	agg := newAggregate()

	snapshot, err := eventStore.GetSnapshot(ctx, id)
	if err != nil {
		return zero, false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	fromVersion := 0
	if snapshot != nil {
		if err := json.Unmarshal(snapshot.State, agg); err != nil {
			return zero, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		fromVersion = snapshot.Version
	}

	events, err := eventStore.GetEventsFromVersion(ctx, id, fromVersion)
	if err != nil {
		return zero, false, fmt.Errorf("failed to get events: %w", err)
	}

	hasData := snapshot != nil || len(events) > 0

	for _, event := range events {
		if err := agg.ApplyEvent(event); err != nil {
			return zero, false, fmt.Errorf("failed to apply event: %w", err)
		}
	}

	return agg, hasData, nil
}

// MaybeCreateSnapshot saves a snapshot when the versions appended since
// fromVersion cross a multiple of store.SnapshotThreshold.
func MaybeCreateSnapshot(
	ctx context.Context,
	eventStore store.EventStoreInterface,
	agg Aggregate,
	aggregateType string,
	fromVersion int,
) error {
	version := agg.GetVersion()
	if version <= 0 || version/store.SnapshotThreshold == fromVersion/store.SnapshotThreshold {
		return nil
	}

	state, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate state: %w", err)
	}

	snapshot := &store.Snapshot{
		AggregateID:   agg.GetID(),
		AggregateType: aggregateType,
		Version:       version,
		State:         state,
		CreatedAt:     time.Now().UTC(),
	}

	if err := eventStore.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Append stores an event for agg, applies the stored copy to agg and
// snapshots when a threshold is crossed. Snapshot failures are only logged.
func Append(
	ctx context.Context,
	eventStore store.EventStoreInterface,
	agg Aggregate,
	aggregateType, eventType string,
	data any,
) (*store.Event, error) {
	fromVersion := agg.GetVersion()
	event, err := eventStore.Append(ctx, agg.GetID(), aggregateType, eventType, data)
	if err != nil {
		return nil, err
	}
	if err := agg.ApplyEvent(*event); err != nil {
		return nil, fmt.Errorf("failed to apply event: %w", err)
	}

	if err := MaybeCreateSnapshot(ctx, eventStore, agg, aggregateType, fromVersion); err != nil {
		slog.WarnContext(ctx, "failed to create snapshot",
			"aggregate_type", aggregateType, "aggregate_id", agg.GetID(), "error", err)
	}
	return event, nil
}
