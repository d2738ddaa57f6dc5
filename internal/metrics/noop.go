package metrics

import "time"

// NoopSink discards all metrics. Used in tests and as a safe default when no
// registry is wired.
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (*NoopSink) EventAppended(string)                       {}
func (*NoopSink) AppendRejected(string)                      {}
func (*NoopSink) CorruptRecordSkipped()                      {}
func (*NoopSink) MetricsQueryObserved(string, time.Duration) {}
func (*NoopSink) ReportOutcome(string)                       {}
