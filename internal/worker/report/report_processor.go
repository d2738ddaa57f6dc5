package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"shiftledger.service/internal/core"
	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/metrics"
	"shiftledger.service/internal/ports/messaging"
	"shiftledger.service/internal/worker"
	"shiftledger.service/internal/worker/companyapi"
)

// MetricsQueries is the slice of the shift log service the report path needs.
type MetricsQueries interface {
	GetBasicMetrics(ctx context.Context, shiftID string) (model.BasicMetrics, error)
	GetOperationalMetrics(ctx context.Context, shiftID string) (model.OperationalMetrics, error)
	GetFinancialMetrics(ctx context.Context, shiftID string, pointAverageCheck float64) (model.FinancialMetrics, error)
	GetQualityMetrics(ctx context.Context, shiftID string) (model.QualityMetrics, error)
}

// ReportProcessor reacts to shift-closed notices: it replays the shift into
// all four metric families and emails the summary to the point manager.
// The company API supplying the average-check baseline sits behind a circuit
// breaker; when the breaker is open the report degrades to a no-baseline
// deviation instead of blocking on a struggling backend.
type ReportProcessor struct {
	queries   MetricsQueries
	reports   core.ReportService
	company   companyapi.Client
	sink      metrics.Sink
	cb        *gobreaker.CircuitBreaker
	recipient string
}

// NewProcessor creates a new processor for the report queue. It sets up a
// circuit breaker to protect the company API from being overwhelmed.
func NewProcessor(queries MetricsQueries, reports core.ReportService, company companyapi.Client, sink metrics.Sink, recipient string) *ReportProcessor {
	settings := gobreaker.Settings{
		Name:        "Company-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger then 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &ReportProcessor{
		queries:   queries,
		reports:   reports,
		company:   company,
		sink:      sink,
		cb:        gobreaker.NewCircuitBreaker(settings),
		recipient: recipient,
	}
}

// Process handles one shift-closed notice from the report queue.
func (p *ReportProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var notice messaging.ShiftClosedNotice
	if err := json.Unmarshal([]byte(*msg.Body), &notice); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal shift-closed notice")
		return false, 0, err // Do not retry on malformed message
	}

	summary, err := p.buildSummary(ctx, notice)
	if err != nil {
		delay := calculateBackoff(worker.ReceiveCount(msg))
		return true, delay, fmt.Errorf("failed to build summary for shift %s: %w", notice.ShiftID, err)
	}

	if err := p.reports.SendShiftSummary(ctx, p.recipient, summary); err != nil {
		p.sink.ReportOutcome("send_failed")
		delay := calculateBackoff(worker.ReceiveCount(msg))
		return true, delay, fmt.Errorf("failed to send summary for shift %s: %w", notice.ShiftID, err)
	}

	p.sink.ReportOutcome("sent")
	log.Ctx(ctx).Info().Str("shift_id", notice.ShiftID).Msg("Shift summary sent")
	return false, 0, nil
}

func (p *ReportProcessor) buildSummary(ctx context.Context, notice messaging.ShiftClosedNotice) (core.ShiftSummary, error) {
	baseline := p.fetchBaseline(ctx, notice.PointID)

	basic, err := p.queries.GetBasicMetrics(ctx, notice.ShiftID)
	if err != nil {
		return core.ShiftSummary{}, err
	}
	operational, err := p.queries.GetOperationalMetrics(ctx, notice.ShiftID)
	if err != nil {
		return core.ShiftSummary{}, err
	}
	financial, err := p.queries.GetFinancialMetrics(ctx, notice.ShiftID, baseline)
	if err != nil {
		return core.ShiftSummary{}, err
	}
	quality, err := p.queries.GetQualityMetrics(ctx, notice.ShiftID)
	if err != nil {
		return core.ShiftSummary{}, err
	}

	return core.ShiftSummary{
		ShiftID:     notice.ShiftID,
		Basic:       basic,
		Operational: operational,
		Financial:   financial,
		Quality:     quality,
	}, nil
}

// fetchBaseline asks the company API for the point's average check through
// the circuit breaker. Any failure degrades to zero, which the financial
// fold treats as "no baseline": the report still goes out, without the
// deviation figure.
func (p *ReportProcessor) fetchBaseline(ctx context.Context, pointID *string) float64 {
	if pointID == nil || *pointID == "" {
		return 0
	}

	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.company.PointAverageCheck(ctx, *pointID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit Breaker is OPEN; skipping Company API call")
		} else {
			log.Ctx(ctx).Warn().Err(err).Str("point_id", *pointID).Msg("Failed to fetch point average check")
		}
		return 0
	}

	baseline, _ := result.(float64)
	return baseline
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry to avoid overwhelming a struggling service.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 { // Cap at 1 hour
		return 3600
	}
	return backoff
}
