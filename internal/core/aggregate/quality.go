package aggregate

import (
	"shiftledger.service/internal/core/model"
)

// Quality replays the shift into service-quality signals.
//
// Two fields are deliberately incomplete schema boundaries, not bugs:
// cancelled-check figures stay zero until an order-cancelled event kind
// exists, and problem reaction time stays nil (not measurable) until a
// problem-resolved event kind exists to pair against problem reports.
// Consumers keep a stable shape either way.
func Quality(events []model.Event) (model.QualityMetrics, error) {
	basic, err := Basic(events)
	if err != nil {
		return model.QualityMetrics{}, err
	}

	m := model.QualityMetrics{}
	// A shift with no checklist at all is not a violation; an incomplete
	// checklist is, however little was missed.
	if basic.TasksTotal > 0 && basic.TasksCompletionPercent < 100 {
		m.ChecklistViolations = 1
	}
	return m, nil
}
