package aggregate

import (
	"sort"
	"time"

	"shiftledger.service/internal/core/model"
)

// Operational replays the shift into tempo metrics: gaps between orders,
// throughput per hour, idle periods and peak hours.
//
// now anchors open shifts: when no shift-closed event exists the shift is
// treated as still running and now is its provisional end. Callers pass a
// fixed now so repeated replays stay comparable.
func Operational(events []model.Event, now time.Time) (model.OperationalMetrics, error) {
	m := model.OperationalMetrics{
		TimeBetweenChecks: []float64{},
		IdlePeriods:       []model.IdlePeriod{},
		PeakHours:         []model.PeakHour{},
	}
	if err := guard(events); err != nil {
		return model.OperationalMetrics{}, err
	}

	// First pass: shift boundaries and the ordered list of order timestamps.
	var shiftStart, shiftEnd time.Time
	var orderTimes []time.Time
	for _, e := range events {
		switch e.Type {
		case model.TypeShiftStarted:
			if shiftStart.IsZero() {
				shiftStart = e.CreatedAt
			}
		case model.TypeShiftClosed:
			shiftEnd = e.CreatedAt
		case model.TypeOrderCreated:
			orderTimes = append(orderTimes, e.CreatedAt)
		}
	}
	if shiftEnd.IsZero() {
		shiftEnd = now
	}

	// Second pass: gap sequence between consecutive orders.
	for i := 1; i < len(orderTimes); i++ {
		m.TimeBetweenChecks = append(m.TimeBetweenChecks, orderTimes[i].Sub(orderTimes[i-1]).Seconds())
	}
	if len(m.TimeBetweenChecks) > 0 {
		var sum float64
		for _, gap := range m.TimeBetweenChecks {
			sum += gap
		}
		m.AvgTimeBetweenOrders = sum / float64(len(m.TimeBetweenChecks))
	}

	// Absent a shift-started event the rate falls back to a one-hour
	// denominator so the figure stays comparable instead of dividing by zero.
	hours := 1.0
	if !shiftStart.IsZero() {
		if d := shiftEnd.Sub(shiftStart).Hours(); d > 0 {
			hours = d
		}
	}
	m.ChecksPerHour = float64(len(orderTimes)) / hours

	m.IdlePeriods = idlePeriods(shiftStart, shiftEnd, orderTimes)
	m.PeakHours = peakHours(orderTimes)

	return m, nil
}

// idlePeriods walks from shift start through every order to shift end and
// flags every gap strictly longer than the idle threshold, including the
// tail gap between the last order and the end of the shift.
func idlePeriods(shiftStart, shiftEnd time.Time, orderTimes []time.Time) []model.IdlePeriod {
	points := make([]time.Time, 0, len(orderTimes)+2)
	if !shiftStart.IsZero() {
		points = append(points, shiftStart)
	}
	points = append(points, orderTimes...)
	if len(points) > 0 && shiftEnd.After(points[len(points)-1]) {
		points = append(points, shiftEnd)
	}

	threshold := IdleThresholdMinutes * time.Minute
	periods := []model.IdlePeriod{}
	for i := 1; i < len(points); i++ {
		gap := points[i].Sub(points[i-1])
		if gap > threshold {
			periods = append(periods, model.IdlePeriod{
				Start:           points[i-1],
				End:             points[i],
				DurationMinutes: gap.Minutes(),
			})
		}
	}
	return periods
}

// peakHours buckets orders by hour of day and returns the top three buckets,
// busiest first, earlier hour first on equal counts.
func peakHours(orderTimes []time.Time) []model.PeakHour {
	counts := map[int]int{}
	for _, t := range orderTimes {
		counts[t.Hour()]++
	}

	buckets := make([]model.PeakHour, 0, len(counts))
	for hour, n := range counts {
		buckets = append(buckets, model.PeakHour{Hour: hour, Orders: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Orders == buckets[j].Orders {
			return buckets[i].Hour < buckets[j].Hour
		}
		return buckets[i].Orders > buckets[j].Orders
	})
	if len(buckets) > 3 {
		buckets = buckets[:3]
	}
	return buckets
}
