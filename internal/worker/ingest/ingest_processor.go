package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"

	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/core/schema"
	"shiftledger.service/internal/worker"
)

// Appender is the slice of the shift log service the ingest path needs.
type Appender interface {
	AppendEvent(ctx context.Context, event model.Event) (model.Event, error)
}

// IngestProcessor appends events arriving from producers (POS terminals,
// checklist UI, shift-close flow) via the ingest queue to the shift log.
type IngestProcessor struct {
	service Appender
}

// NewProcessor sets up a new processor for the ingest queue.
func NewProcessor(service Appender) *IngestProcessor {
	return &IngestProcessor{service: service}
}

// Process handles one message from the ingest queue. A message that cannot
// ever be appended (unparseable body, schema violation) is not retried: it
// is surfaced as an unrecoverable error and left to the queue's redrive
// policy, which makes the producer-side bug visible in the dead-letter
// queue. Storage failures are retried with exponential backoff, and the
// append itself is idempotent on the event id, so a redelivery after a
// successful write stays a single record.
func (p *IngestProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event model.Event
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal shift event")
		return false, 0, err // Do not retry on malformed message
	}

	_, err := p.service.AppendEvent(ctx, event)
	if err != nil {
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			log.Ctx(ctx).Error().Err(err).Str("shift_id", event.ShiftID).Msg("Event rejected by schema, dropping")
			return false, 0, err
		}

		delay := calculateBackoff(worker.ReceiveCount(msg))
		return true, delay, fmt.Errorf("failed to append event %s: %w", event.ID, err)
	}

	log.Ctx(ctx).Info().
		Str("shift_id", event.ShiftID).
		Str("event_type", string(event.Type)).
		Msg("Appended shift event")
	return false, 0, nil
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
