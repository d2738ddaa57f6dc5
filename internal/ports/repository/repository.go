package repository

import (
	"context"
	"errors"
	"time"

	"shiftledger.service/internal/core/model"
)

// ErrPersistence wraps storage failures on the append and read paths.
// Callers must surface it as a hard failure: masking a storage outage as
// zero-valued metrics would silently report no revenue during the outage.
var ErrPersistence = errors.New("event store persistence failure")

// ErrScanCancelled wraps a caller-aborted cross-shift window scan. A
// cancelled scan never returns a partial slice that looks complete.
var ErrScanCancelled = errors.New("event scan cancelled")

// Repository is the event store contract: durable, append-only persistence
// of shift events, returned in stable (createdAt, id) order.
type Repository interface {
	Append(ctx context.Context, event model.Event) error
	ListByShift(ctx context.Context, shiftID string) ([]model.Event, error)
	ListByType(ctx context.Context, shiftID string, eventType model.EventType) ([]model.Event, error)
	ListByLocationAndWindow(ctx context.Context, pointID string, start, end time.Time) ([]model.Event, error)
}
