package kinesis

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/moringa-store/internal/infrastructure/store"
)

// EventHandler processes one decoded event
type EventHandler func(ctx context.Context, event store.Event) error

// ProcessBatch runs handle over every INSERT in the batch and reports the
// records that failed so Lambda retries only those.
func ProcessBatch(ctx context.Context, batch events.KinesisEvent, handle EventHandler, log *slog.Logger) events.KinesisEventResponse {
	if log == nil {
		log = slog.Default()
	}

	var failures []events.KinesisBatchItemFailure
	processed := 0
	for _, record := range batch.Records {
		event, err := ConvertFromKinesisRecord(record)
		if err != nil {
			log.ErrorContext(ctx, "failed to convert record", "record_id", record.EventID, "error", err)
			failures = append(failures, events.KinesisBatchItemFailure{ItemIdentifier: record.Kinesis.SequenceNumber})
			continue
		}
		if event == nil {
			continue
		}

		if err := handle(ctx, *event); err != nil {
			log.ErrorContext(ctx, "failed to process event",
				"event_id", event.ID,
				"event_type", event.EventType,
				"error", err,
			)
			failures = append(failures, events.KinesisBatchItemFailure{ItemIdentifier: record.Kinesis.SequenceNumber})
			continue
		}
		processed++
	}

	log.InfoContext(ctx, "batch processed",
		"records", len(batch.Records),
		"processed", processed,
		"failed", len(failures),
	)
	return events.KinesisEventResponse{BatchItemFailures: failures}
}
