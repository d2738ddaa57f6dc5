package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger.service/internal/core/model"
)

func TestOperationalSingleOrderScenario(t *testing.T) {
	events := []model.Event{
		shiftStarted(t, t0),
		order(t, t0.Add(5*time.Minute), 100, model.PaymentCash),
		shiftClosed(t, t0.Add(10*time.Minute), model.ShiftClosedPayload{}),
	}

	m, err := Operational(events, t0.Add(time.Hour))
	require.NoError(t, err)

	assert.Empty(t, m.TimeBetweenChecks)
	assert.Equal(t, 0.0, m.AvgTimeBetweenOrders, "fewer than two orders")
	// gaps of 5min and 5min are both under the threshold
	assert.Empty(t, m.IdlePeriods)
	// 1 order over a 10-minute shift
	assert.InDelta(t, 6.0, m.ChecksPerHour, 1e-9)
}

func TestOperationalGapsFollowCreatedAtOrder(t *testing.T) {
	events := []model.Event{
		order(t, t0, 10, model.PaymentCash),
		order(t, t0.Add(90*time.Second), 20, model.PaymentCash),
		order(t, t0.Add(150*time.Second), 30, model.PaymentCard),
	}

	m, err := Operational(events, t0.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, m.TimeBetweenChecks, 2)
	assert.Equal(t, 90.0, m.TimeBetweenChecks[0])
	assert.Equal(t, 60.0, m.TimeBetweenChecks[1])
	assert.Equal(t, 75.0, m.AvgTimeBetweenOrders)
}

func TestOperationalIdleDetectionScenario(t *testing.T) {
	events := []model.Event{
		shiftStarted(t, t0),
		order(t, t0.Add(1*time.Minute), 10, model.PaymentCash),
		order(t, t0.Add(25*time.Minute), 20, model.PaymentCash),
		shiftClosed(t, t0.Add(26*time.Minute), model.ShiftClosedPayload{}),
	}

	m, err := Operational(events, t0.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, m.IdlePeriods, 1)
	assert.Equal(t, t0.Add(1*time.Minute), m.IdlePeriods[0].Start)
	assert.Equal(t, t0.Add(25*time.Minute), m.IdlePeriods[0].End)
	assert.Equal(t, 24.0, m.IdlePeriods[0].DurationMinutes)
}

func TestOperationalIdleThresholdIsStrict(t *testing.T) {
	cases := []struct {
		name string
		gap  time.Duration
		idle int
	}{
		{"exactly 20 minutes is not idle", 20 * time.Minute, 0},
		{"20 minutes and a second is idle", 20*time.Minute + time.Second, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := []model.Event{
				shiftStarted(t, t0),
				order(t, t0.Add(time.Minute), 10, model.PaymentCash),
				order(t, t0.Add(time.Minute).Add(tc.gap), 20, model.PaymentCash),
				shiftClosed(t, t0.Add(time.Minute).Add(tc.gap).Add(time.Minute), model.ShiftClosedPayload{}),
			}

			m, err := Operational(events, t0.Add(2*time.Hour))
			require.NoError(t, err)
			assert.Len(t, m.IdlePeriods, tc.idle)
		})
	}
}

func TestOperationalTailGapCountsAsIdle(t *testing.T) {
	events := []model.Event{
		shiftStarted(t, t0),
		order(t, t0.Add(time.Minute), 10, model.PaymentCash),
		shiftClosed(t, t0.Add(40*time.Minute), model.ShiftClosedPayload{}),
	}

	m, err := Operational(events, t0.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, m.IdlePeriods, 1)
	assert.Equal(t, t0.Add(time.Minute), m.IdlePeriods[0].Start)
	assert.Equal(t, t0.Add(40*time.Minute), m.IdlePeriods[0].End)
}

func TestOperationalOpenShiftUsesNow(t *testing.T) {
	now := t0.Add(30 * time.Minute)
	events := []model.Event{
		shiftStarted(t, t0),
		order(t, t0.Add(time.Minute), 10, model.PaymentCash),
	}

	m, err := Operational(events, now)
	require.NoError(t, err)

	// idle tail runs from the only order to now
	require.Len(t, m.IdlePeriods, 1)
	assert.Equal(t, now, m.IdlePeriods[0].End)
	// half-hour open shift, one order
	assert.InDelta(t, 2.0, m.ChecksPerHour, 1e-9)
}

func TestOperationalChecksPerHourWithoutShiftStart(t *testing.T) {
	events := []model.Event{
		order(t, t0, 10, model.PaymentCash),
		order(t, t0.Add(5*time.Minute), 20, model.PaymentCash),
		order(t, t0.Add(10*time.Minute), 30, model.PaymentCash),
	}

	m, err := Operational(events, t0.Add(time.Hour))
	require.NoError(t, err)

	// falls back to a one-hour denominator
	assert.Equal(t, 3.0, m.ChecksPerHour)
}

func TestOperationalPeakHours(t *testing.T) {
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	var events []model.Event
	addOrders := func(hour, n int) {
		at := time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
		for i := 0; i < n; i++ {
			events = append(events, order(t, at.Add(time.Duration(i)*time.Minute), 10, model.PaymentCash))
		}
	}
	addOrders(12, 5)
	addOrders(13, 8)
	addOrders(18, 8)
	addOrders(9, 2)
	addOrders(20, 1)

	m, err := Operational(events, base.Add(14*time.Hour))
	require.NoError(t, err)

	require.Len(t, m.PeakHours, 3)
	// busiest first; equal counts ordered by earlier hour
	assert.Equal(t, model.PeakHour{Hour: 13, Orders: 8}, m.PeakHours[0])
	assert.Equal(t, model.PeakHour{Hour: 18, Orders: 8}, m.PeakHours[1])
	assert.Equal(t, model.PeakHour{Hour: 12, Orders: 5}, m.PeakHours[2])
}

func TestOperationalEmptyShift(t *testing.T) {
	m, err := Operational(nil, t0)
	require.NoError(t, err)

	assert.Empty(t, m.TimeBetweenChecks)
	assert.Empty(t, m.IdlePeriods)
	assert.Empty(t, m.PeakHours)
	assert.Zero(t, m.AvgTimeBetweenOrders)
	assert.Zero(t, m.ChecksPerHour)
}

func TestOperationalDeterministic(t *testing.T) {
	events := []model.Event{
		shiftStarted(t, t0),
		order(t, t0.Add(5*time.Minute), 100, model.PaymentCash),
		order(t, t0.Add(45*time.Minute), 60, model.PaymentCard),
		shiftClosed(t, t0.Add(time.Hour), model.ShiftClosedPayload{}),
	}
	now := t0.Add(2 * time.Hour)

	m1, err := Operational(events, now)
	require.NoError(t, err)
	m2, err := Operational(events, now)
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
}
