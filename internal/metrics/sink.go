package metrics

import "time"

// Sink records operational metrics about the event log itself (not the
// business KPIs, which are computed by replay). All methods are
// fire-and-forget: implementations must not block or propagate errors.
type Sink interface {
	// Event store
	EventAppended(eventType string)
	AppendRejected(reason string)
	CorruptRecordSkipped()

	// Query layer
	MetricsQueryObserved(family string, duration time.Duration)

	// Report worker
	ReportOutcome(outcome string)
}
