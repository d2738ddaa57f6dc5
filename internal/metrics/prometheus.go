package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// PrometheusSink implements Sink on the Prometheus client library.
// Registration failures are logged and the affected collector keeps working
// unregistered; metrics are never worth failing a request over.
type PrometheusSink struct {
	eventsAppendedTotal  *prometheus.CounterVec
	appendsRejectedTotal *prometheus.CounterVec
	corruptRecordsTotal  prometheus.Counter
	queryDuration        *prometheus.HistogramVec
	reportOutcomesTotal  *prometheus.CounterVec
}

// NewPrometheusSink creates the sink and registers its collectors on reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		eventsAppendedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftledger_events_appended_total",
			Help: "Events durably appended to the shift log, by event type.",
		}, []string{"type"}),
		appendsRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftledger_appends_rejected_total",
			Help: "Appends rejected before persistence, by reason.",
		}, []string{"reason"}),
		corruptRecordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftledger_corrupt_records_skipped_total",
			Help: "Unreadable event records skipped during replay reads.",
		}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftledger_metrics_query_duration_seconds",
			Help:    "Duration of read-then-replay metrics queries, by metric family.",
			Buckets: prometheus.DefBuckets,
		}, []string{"family"}),
		reportOutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftledger_shift_reports_total",
			Help: "Shift summary report outcomes.",
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{
		s.eventsAppendedTotal,
		s.appendsRejectedTotal,
		s.corruptRecordsTotal,
		s.queryDuration,
		s.reportOutcomesTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register metrics collector")
		}
	}
	return s
}

func (s *PrometheusSink) EventAppended(eventType string) {
	s.eventsAppendedTotal.WithLabelValues(eventType).Inc()
}

func (s *PrometheusSink) AppendRejected(reason string) {
	s.appendsRejectedTotal.WithLabelValues(reason).Inc()
}

func (s *PrometheusSink) CorruptRecordSkipped() {
	s.corruptRecordsTotal.Inc()
}

func (s *PrometheusSink) MetricsQueryObserved(family string, duration time.Duration) {
	s.queryDuration.WithLabelValues(family).Observe(duration.Seconds())
}

func (s *PrometheusSink) ReportOutcome(outcome string) {
	s.reportOutcomesTotal.WithLabelValues(outcome).Inc()
}
