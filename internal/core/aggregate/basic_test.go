package aggregate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger.service/internal/core/model"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func evt(t *testing.T, typ model.EventType, createdAt time.Time, payload any) model.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return model.Event{
		ID:        uuid.New(),
		ShiftID:   "shift-1",
		Type:      typ,
		Payload:   json.RawMessage(raw),
		CreatedAt: createdAt,
	}
}

func order(t *testing.T, createdAt time.Time, amount float64, method string) model.Event {
	t.Helper()
	return evt(t, model.TypeOrderCreated, createdAt, model.OrderCreatedPayload{
		OrderID:       uuid.NewString(),
		TotalAmount:   amount,
		PaymentMethod: method,
	})
}

func taskDone(t *testing.T, createdAt time.Time, taskID string) model.Event {
	t.Helper()
	return evt(t, model.TypeChecklistTaskCompleted, createdAt, model.ChecklistTaskCompletedPayload{
		TaskID:   taskID,
		TaskName: "task " + taskID,
	})
}

func shiftStarted(t *testing.T, at time.Time) model.Event {
	t.Helper()
	return evt(t, model.TypeShiftStarted, at, model.ShiftStartedPayload{StartedAt: at})
}

func shiftClosed(t *testing.T, at time.Time, p model.ShiftClosedPayload) model.Event {
	t.Helper()
	p.ClosedAt = at
	return evt(t, model.TypeShiftClosed, at, p)
}

func TestBasicEmptyShift(t *testing.T) {
	m, err := Basic(nil)
	require.NoError(t, err)

	assert.Zero(t, m.TotalRevenue)
	assert.Zero(t, m.ChecksCount)
	assert.Zero(t, m.TasksTotal)
	assert.Zero(t, m.TasksCompletionPercent)
	assert.Empty(t, m.ProblemsByCategory)
}

func TestBasicRevenueSplit(t *testing.T) {
	events := []model.Event{
		order(t, t0, 100, model.PaymentCash),
		order(t, t0.Add(5*time.Minute), 50, model.PaymentCard),
		order(t, t0.Add(10*time.Minute), 30, model.PaymentOnline),
	}

	m, err := Basic(events)
	require.NoError(t, err)

	assert.Equal(t, 180.0, m.TotalRevenue)
	assert.Equal(t, 100.0, m.TotalCash)
	// online settles as card
	assert.Equal(t, 80.0, m.TotalCard)
	assert.Equal(t, 3, m.ChecksCount)
}

func TestBasicRevenueOrderIndependent(t *testing.T) {
	a := order(t, t0, 100, model.PaymentCash)
	b := order(t, t0, 40, model.PaymentCard) // same timestamp, distinct id

	m1, err := Basic([]model.Event{a, b})
	require.NoError(t, err)
	m2, err := Basic([]model.Event{b, a})
	require.NoError(t, err)

	assert.Equal(t, m1.TotalRevenue, m2.TotalRevenue)
	assert.Equal(t, m1.TotalCash, m2.TotalCash)
	assert.Equal(t, m1.TotalCard, m2.TotalCard)
}

func TestBasicTasksTotalInferred(t *testing.T) {
	events := []model.Event{
		taskDone(t, t0, "1"),
		taskDone(t, t0.Add(time.Minute), "2"),
		taskDone(t, t0.Add(2*time.Minute), "3"),
		shiftClosed(t, t0.Add(8*time.Hour), model.ShiftClosedPayload{}),
	}

	m, err := Basic(events)
	require.NoError(t, err)

	assert.Equal(t, 3, m.TasksCompleted)
	assert.Equal(t, 3, m.TasksTotal)
	assert.Equal(t, 100.0, m.TasksCompletionPercent)
}

func TestBasicTasksTotalDeclared(t *testing.T) {
	total := 5
	events := []model.Event{
		taskDone(t, t0, "1"),
		taskDone(t, t0.Add(time.Minute), "2"),
		taskDone(t, t0.Add(2*time.Minute), "3"),
		shiftClosed(t, t0.Add(8*time.Hour), model.ShiftClosedPayload{TasksTotal: &total}),
	}

	m, err := Basic(events)
	require.NoError(t, err)

	assert.Equal(t, 5, m.TasksTotal)
	assert.Equal(t, 60.0, m.TasksCompletionPercent)
}

func TestBasicCompletionPercentNoTasks(t *testing.T) {
	zero := 0
	events := []model.Event{
		shiftClosed(t, t0.Add(8*time.Hour), model.ShiftClosedPayload{TasksTotal: &zero}),
	}

	m, err := Basic(events)
	require.NoError(t, err)

	// no division by zero, no NaN
	assert.Equal(t, 0, m.TasksTotal)
	assert.Equal(t, 0.0, m.TasksCompletionPercent)
}

func TestBasicProblemTallies(t *testing.T) {
	events := []model.Event{
		evt(t, model.TypeProblemReported, t0, model.ProblemReportedPayload{
			ProblemID: "p1", Category: "equipment", Severity: "high",
		}),
		evt(t, model.TypeProblemReported, t0.Add(time.Hour), model.ProblemReportedPayload{
			ProblemID: "p2", Category: "equipment", Severity: "low",
		}),
		evt(t, model.TypeProblemReported, t0.Add(2*time.Hour), model.ProblemReportedPayload{
			ProblemID: "p3", Category: "staff", Severity: "high",
		}),
	}

	m, err := Basic(events)
	require.NoError(t, err)

	assert.Equal(t, 3, m.ProblemsCount)
	assert.Equal(t, map[string]int{"equipment": 2, "staff": 1}, m.ProblemsByCategory)
	assert.Equal(t, map[string]int{"high": 2, "low": 1}, m.ProblemsBySeverity)
}

func TestBasicUnknownEventType(t *testing.T) {
	bad := model.Event{
		ID:        uuid.New(),
		ShiftID:   "shift-1",
		Type:      model.EventType("ORDER_CANCELLED"),
		Payload:   json.RawMessage(`{}`),
		CreatedAt: t0,
	}

	_, err := Basic([]model.Event{bad})
	require.ErrorIs(t, err, ErrUnknownEventType)
}

func TestBasicDeterministic(t *testing.T) {
	events := []model.Event{
		shiftStarted(t, t0),
		order(t, t0.Add(5*time.Minute), 100, model.PaymentCash),
		taskDone(t, t0.Add(10*time.Minute), "1"),
		shiftClosed(t, t0.Add(time.Hour), model.ShiftClosedPayload{}),
	}

	m1, err := Basic(events)
	require.NoError(t, err)
	m2, err := Basic(events)
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
}
