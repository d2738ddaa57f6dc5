package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shiftledger.service/internal/core/aggregate"
	"shiftledger.service/internal/core/model"
	"shiftledger.service/pkg/telemetry"
)

// ShiftSummary bundles the four metric families for one closed shift.
type ShiftSummary struct {
	ShiftID     string
	Basic       model.BasicMetrics
	Operational model.OperationalMetrics
	Financial   model.FinancialMetrics
	Quality     model.QualityMetrics
}

type ReportService interface {
	SendShiftSummary(ctx context.Context, to string, summary ShiftSummary) error
}

type SESReportService struct {
	client *ses.Client
	sender string
}

func NewSESReportService(client *ses.Client, sender string) *SESReportService {
	return &SESReportService{client: client, sender: sender}
}

func (s *SESReportService) SendShiftSummary(ctx context.Context, to string, summary ShiftSummary) error {
	tracer := otel.Tracer("ses-report-service")
	ctx, span := tracer.Start(ctx, "send_shift_summary", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(attribute.String("app.shiftId", summary.ShiftID))
	if shiftID := telemetry.GetShiftIDFromContext(ctx); shiftID != "" {
		span.SetAttributes(attribute.String("app.shiftId", shiftID))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("Shift Summary: %s", summary.ShiftID)),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(formatSummary(summary)),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

func formatSummary(s ShiftSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shift %s has been closed.\n\n", s.ShiftID)
	fmt.Fprintf(&b, "Revenue: %.2f (cash %.2f / card %.2f)\n", s.Basic.TotalRevenue, s.Basic.TotalCash, s.Basic.TotalCard)
	fmt.Fprintf(&b, "Checks: %d, average check %.2f\n", s.Basic.ChecksCount, s.Financial.AvgCheck)
	if s.Financial.AvgCheckDeviation.Percent != 0 {
		fmt.Fprintf(&b, "Average check vs point baseline: %+.2f (%+.1f%%)\n",
			s.Financial.AvgCheckDeviation.Absolute, s.Financial.AvgCheckDeviation.Percent)
	}
	fmt.Fprintf(&b, "Checks per hour: %.2f\n", s.Operational.ChecksPerHour)
	fmt.Fprintf(&b, "Idle periods over %d minutes: %d\n", aggregate.IdleThresholdMinutes, len(s.Operational.IdlePeriods))
	fmt.Fprintf(&b, "Checklist: %d/%d tasks (%.0f%%)\n", s.Basic.TasksCompleted, s.Basic.TasksTotal, s.Basic.TasksCompletionPercent)
	fmt.Fprintf(&b, "Problems reported: %d\n", s.Basic.ProblemsCount)
	if s.Quality.ChecklistViolations > 0 {
		b.WriteString("Checklist violation flagged for this shift.\n")
	}
	return b.String()
}
