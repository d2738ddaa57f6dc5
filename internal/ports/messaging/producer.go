package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Producer struct {
	sender         MessageSender
	reportQueueURL string
}

func NewProducer(sender MessageSender, reportQueueURL string) *Producer {
	return &Producer{
		sender:         sender,
		reportQueueURL: reportQueueURL,
	}
}

func NewSQSProducer(client SQSClient, reportQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, reportQueueURL)
}

// PublishShiftClosed puts a shift-closed notice on the report queue.
func (p *Producer) PublishShiftClosed(ctx context.Context, notice ShiftClosedNotice) error {
	b, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	// Enrich the current span with the shift id
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.String("app.shiftId", notice.ShiftID))
	}

	if err := p.sender.SendMessage(ctx, p.reportQueueURL, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
