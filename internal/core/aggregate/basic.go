package aggregate

import (
	"shiftledger.service/internal/core/model"
)

// Basic replays the shift into revenue, check, checklist and problem totals
// with a single left-to-right pass.
//
// tasksTotal comes from the shift-closed declaration when the closing manager
// supplied one. Otherwise it falls back to the number of completed tasks: a
// shift that never declared a total is assumed to have had at least as many
// tasks as were completed.
func Basic(events []model.Event) (model.BasicMetrics, error) {
	m := model.BasicMetrics{
		ProblemsByCategory: map[string]int{},
		ProblemsBySeverity: map[string]int{},
	}
	if err := guard(events); err != nil {
		return model.BasicMetrics{}, err
	}

	var declaredTasksTotal *int

	for _, e := range events {
		switch e.Type {
		case model.TypeOrderCreated:
			var p model.OrderCreatedPayload
			if err := decodePayload(e, &p); err != nil {
				return model.BasicMetrics{}, err
			}
			m.ChecksCount++
			m.TotalRevenue += p.TotalAmount
			if p.PaymentMethod == model.PaymentCash {
				m.TotalCash += p.TotalAmount
			} else {
				// card and online both settle as card
				m.TotalCard += p.TotalAmount
			}

		case model.TypeChecklistTaskCompleted:
			m.TasksCompleted++

		case model.TypeProblemReported:
			var p model.ProblemReportedPayload
			if err := decodePayload(e, &p); err != nil {
				return model.BasicMetrics{}, err
			}
			m.ProblemsCount++
			m.ProblemsByCategory[p.Category]++
			m.ProblemsBySeverity[p.Severity]++

		case model.TypeShiftClosed:
			var p model.ShiftClosedPayload
			if err := decodePayload(e, &p); err != nil {
				return model.BasicMetrics{}, err
			}
			if p.TasksTotal != nil {
				declaredTasksTotal = p.TasksTotal
			}
		}
	}

	if declaredTasksTotal != nil {
		m.TasksTotal = *declaredTasksTotal
	} else if m.TasksCompleted > 0 {
		m.TasksTotal = m.TasksCompleted
	}

	if m.TasksTotal > 0 {
		m.TasksCompletionPercent = float64(m.TasksCompleted) / float64(m.TasksTotal) * 100
	}

	return m, nil
}
