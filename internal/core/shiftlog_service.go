package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"shiftledger.service/internal/core/aggregate"
	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/core/schema"
	"shiftledger.service/internal/metrics"
	"shiftledger.service/internal/ports/messaging"
	"shiftledger.service/internal/ports/repository"
)

// ShiftLogService is the query layer over the event store: the only surface
// callers (API handlers, report workers) talk to. Every metrics read is a
// fresh read-then-replay; there is no cached state to go stale.
type ShiftLogService struct {
	repo     repository.Repository
	producer messaging.ReportProducer
	sink     metrics.Sink
	now      func() time.Time
}

// NewShiftLogService wires the event store, the report-queue producer and
// the ops-metrics sink.
func NewShiftLogService(repo repository.Repository, producer messaging.ReportProducer, sink metrics.Sink) *ShiftLogService {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &ShiftLogService{
		repo:     repo,
		producer: producer,
		sink:     sink,
		now:      time.Now,
	}
}

// AppendEvent validates, completes and persists one event. Validation runs
// before persistence so a malformed event is never partially written; a
// rejected append is always surfaced to the producer, since a dropped sale
// would corrupt financial metrics permanently.
//
// Closing a shift additionally notifies the report queue. That publish is
// best-effort: the event is already durable, so a queue outage is logged
// rather than failing the append.
func (s *ShiftLogService) AppendEvent(ctx context.Context, event model.Event) (model.Event, error) {
	if event.ShiftID == "" {
		s.sink.AppendRejected("schema")
		return model.Event{}, &schema.Error{Type: event.Type, Field: "shiftId", Reason: "is required"}
	}
	if err := schema.Validate(event.Type, event.Payload); err != nil {
		s.sink.AppendRejected("schema")
		return model.Event{}, err
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Append(ctx, event); err != nil {
		s.sink.AppendRejected("persistence")
		return model.Event{}, err
	}
	s.sink.EventAppended(string(event.Type))

	if event.Type == model.TypeShiftClosed {
		s.notifyShiftClosed(ctx, event)
	}

	return event, nil
}

func (s *ShiftLogService) notifyShiftClosed(ctx context.Context, event model.Event) {
	var p model.ShiftClosedPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		// Validated at append time, so this should not happen.
		log.Ctx(ctx).Warn().Err(err).Str("shift_id", event.ShiftID).Msg("Could not decode shift-closed payload for notification")
		return
	}

	notice := messaging.ShiftClosedNotice{
		ShiftID:    event.ShiftID,
		CompanyID:  event.CompanyID,
		PointID:    event.PointID,
		EmployeeID: event.EmployeeID,
		ClosedAt:   p.ClosedAt,
	}
	if err := s.producer.PublishShiftClosed(ctx, notice); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("shift_id", event.ShiftID).Msg("Failed to publish shift-closed notice")
	}
}

// GetBasicMetrics replays one shift into the basic metric family. An
// unknown or eventless shift is a valid state for an open shift and yields
// zero-valued metrics, not an error.
func (s *ShiftLogService) GetBasicMetrics(ctx context.Context, shiftID string) (model.BasicMetrics, error) {
	defer s.observe("basic", s.now())

	events, err := s.loadOrdered(ctx, shiftID)
	if err != nil {
		return model.BasicMetrics{}, err
	}
	return aggregate.Basic(events)
}

// GetOperationalMetrics replays one shift into the operational metric family.
func (s *ShiftLogService) GetOperationalMetrics(ctx context.Context, shiftID string) (model.OperationalMetrics, error) {
	defer s.observe("operational", s.now())

	events, err := s.loadOrdered(ctx, shiftID)
	if err != nil {
		return model.OperationalMetrics{}, err
	}
	return aggregate.Operational(events, s.now().UTC())
}

// GetFinancialMetrics replays one shift into the financial metric family.
// pointAverageCheck is the caller-supplied baseline; zero means no baseline.
func (s *ShiftLogService) GetFinancialMetrics(ctx context.Context, shiftID string, pointAverageCheck float64) (model.FinancialMetrics, error) {
	defer s.observe("financial", s.now())

	events, err := s.loadOrdered(ctx, shiftID)
	if err != nil {
		return model.FinancialMetrics{}, err
	}
	return aggregate.Financial(events, pointAverageCheck)
}

// GetQualityMetrics replays one shift into the quality metric family.
func (s *ShiftLogService) GetQualityMetrics(ctx context.Context, shiftID string) (model.QualityMetrics, error) {
	defer s.observe("quality", s.now())

	events, err := s.loadOrdered(ctx, shiftID)
	if err != nil {
		return model.QualityMetrics{}, err
	}
	return aggregate.Quality(events)
}

// ListShiftEvents returns a shift's raw event sequence, optionally filtered
// by kind when eventType is non-empty.
func (s *ShiftLogService) ListShiftEvents(ctx context.Context, shiftID string, eventType model.EventType) ([]model.Event, error) {
	if eventType != "" {
		if !schema.Known(eventType) {
			return nil, &schema.Error{Type: eventType, Reason: "unknown event type"}
		}
		return s.repo.ListByType(ctx, shiftID, eventType)
	}
	return s.repo.ListByShift(ctx, shiftID)
}

// ListLocationEvents returns all events at one point within [start, end],
// used for cross-shift reporting. Both bounds are inclusive, so an equal
// start and end is a valid single-instant window.
func (s *ShiftLogService) ListLocationEvents(ctx context.Context, pointID string, start, end time.Time) ([]model.Event, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("window end must not be before start")
	}
	return s.repo.ListByLocationAndWindow(ctx, pointID, start, end)
}

// loadOrdered reads a shift's events and fixes the replay order locally, so
// determinism does not depend on the store's ordering.
func (s *ShiftLogService) loadOrdered(ctx context.Context, shiftID string) ([]model.Event, error) {
	events, err := s.repo.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	model.SortEvents(events)
	return events, nil
}

func (s *ShiftLogService) observe(family string, start time.Time) {
	s.sink.MetricsQueryObserved(family, s.now().Sub(start))
}
