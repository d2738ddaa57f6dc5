package aggregate

import (
	"shiftledger.service/internal/core/model"
)

// Financial builds on the basic pass: payment-method shares of revenue and
// the deviation of this shift's average check from the point baseline.
//
// pointAverageCheck is supplied by the caller (it is computed across shifts,
// outside this engine). A zero or negative baseline means "no baseline" and
// yields a zero deviation, as does a shift with no checks.
func Financial(events []model.Event, pointAverageCheck float64) (model.FinancialMetrics, error) {
	basic, err := Basic(events)
	if err != nil {
		return model.FinancialMetrics{}, err
	}

	var m model.FinancialMetrics
	if basic.TotalRevenue > 0 {
		m.CashShare = basic.TotalCash / basic.TotalRevenue
		m.CardShare = basic.TotalCard / basic.TotalRevenue
	}
	if basic.ChecksCount > 0 {
		m.AvgCheck = basic.TotalRevenue / float64(basic.ChecksCount)
	}
	if pointAverageCheck > 0 && basic.ChecksCount > 0 {
		m.AvgCheckDeviation = model.Deviation{
			Absolute: m.AvgCheck - pointAverageCheck,
			Percent:  (m.AvgCheck - pointAverageCheck) / pointAverageCheck * 100,
		}
	}
	return m, nil
}
