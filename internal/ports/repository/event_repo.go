package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/core/schema"
	"shiftledger.service/internal/metrics"
)

// EventRepository is the PostgreSQL event store. One row per event, keyed by
// the event's own id, so a single corrupt record can be skipped on read
// without affecting its siblings.
type EventRepository struct {
	DB   *sql.DB
	sink metrics.Sink
}

// NewEventRepository creates a new store on the given connection pool.
func NewEventRepository(db *sql.DB, sink metrics.Sink) *EventRepository {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &EventRepository{DB: db, sink: sink}
}

const queryAppendEvent = `INSERT INTO shift_events (id, shift_id, company_id, point_id, employee_id, event_type, payload, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (id) DO NOTHING`

const queryListByShift = `SELECT id, shift_id, company_id, point_id, employee_id, event_type, payload, created_at
              FROM shift_events
              WHERE shift_id = $1
              ORDER BY created_at, id`

const queryListByType = `SELECT id, shift_id, company_id, point_id, employee_id, event_type, payload, created_at
              FROM shift_events
              WHERE shift_id = $1 AND event_type = $2
              ORDER BY created_at, id`

const queryListByWindow = `SELECT id, shift_id, company_id, point_id, employee_id, event_type, payload, created_at
              FROM shift_events
              WHERE point_id = $1 AND created_at >= $2 AND created_at <= $3
              ORDER BY created_at, id`

// Append durably persists one event. The insert is idempotent on the event
// id, so an at-least-once redelivery of the same event stays a single row.
// Once Append returns nil the event is visible to every subsequent read.
func (r *EventRepository) Append(ctx context.Context, event model.Event) error {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.shiftId", event.ShiftID),
		attribute.String("app.eventType", string(event.Type)),
	)

	_, err := r.DB.ExecContext(ctx, queryAppendEvent,
		event.ID,
		event.ShiftID,
		event.CompanyID,
		event.PointID,
		event.EmployeeID,
		string(event.Type),
		[]byte(event.Payload),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: append event %s: %v", ErrPersistence, event.ID, err)
	}
	return nil
}

// ListByShift returns every event of one shift ascending by createdAt, ties
// broken by id. A shift with no events yields an empty slice, not an error.
func (r *EventRepository) ListByShift(ctx context.Context, shiftID string) ([]model.Event, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.shiftId", shiftID))

	rows, err := r.DB.QueryContext(ctx, queryListByShift, shiftID)
	if err != nil {
		return nil, fmt.Errorf("%w: list shift %s: %v", ErrPersistence, shiftID, err)
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

// ListByType filters one shift's events by kind, same ordering guarantee as
// ListByShift.
func (r *EventRepository) ListByType(ctx context.Context, shiftID string, eventType model.EventType) ([]model.Event, error) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.shiftId", shiftID),
		attribute.String("app.eventType", string(eventType)),
	)

	rows, err := r.DB.QueryContext(ctx, queryListByType, shiftID, string(eventType))
	if err != nil {
		return nil, fmt.Errorf("%w: list shift %s by type: %v", ErrPersistence, shiftID, err)
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

// ListByLocationAndWindow returns all events at one point within
// [start, end]. The scan crosses every shift of the point, so cost grows
// with the point's total history; the (point_id, created_at) index keeps it
// a range read. The caller's context bounds the scan: cancellation surfaces
// ErrScanCancelled, never a silently-truncated result.
func (r *EventRepository) ListByLocationAndWindow(ctx context.Context, pointID string, start, end time.Time) ([]model.Event, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.pointId", pointID))

	rows, err := r.DB.QueryContext(ctx, queryListByWindow, pointID, start, end)
	if err != nil {
		if ctxErr(err) {
			return nil, fmt.Errorf("%w: window scan for point %s: %v", ErrScanCancelled, pointID, err)
		}
		return nil, fmt.Errorf("%w: window scan for point %s: %v", ErrPersistence, pointID, err)
	}
	defer rows.Close()

	events, err := r.collect(ctx, rows)
	if err != nil && ctxErr(err) {
		return nil, fmt.Errorf("%w: window scan for point %s: %v", ErrScanCancelled, pointID, err)
	}
	return events, err
}

// collect scans rows into events. An individual unreadable record (scan
// failure, invalid payload JSON, unknown stored type) is skipped with a
// warning so the remaining events still aggregate; a failure of the result
// set as a whole is a persistence error.
func (r *EventRepository) collect(ctx context.Context, rows *sql.Rows) ([]model.Event, error) {
	events := []model.Event{}
	for rows.Next() {
		var (
			e         model.Event
			eventType string
			payload   []byte
		)
		err := rows.Scan(&e.ID, &e.ShiftID, &e.CompanyID, &e.PointID, &e.EmployeeID, &eventType, &payload, &e.CreatedAt)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Skipping unreadable event record")
			r.sink.CorruptRecordSkipped()
			continue
		}
		e.Type = model.EventType(eventType)
		e.Payload = json.RawMessage(payload)

		if !schema.Known(e.Type) || !json.Valid(payload) {
			log.Ctx(ctx).Warn().
				Str("event_id", e.ID.String()).
				Str("event_type", eventType).
				Msg("Skipping corrupt event record")
			r.sink.CorruptRecordSkipped()
			continue
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		if ctxErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading event rows: %v", ErrPersistence, err)
	}
	return events, nil
}

func ctxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
