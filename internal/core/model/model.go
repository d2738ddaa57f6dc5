package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType identifies one of the closed set of shift event kinds.
type EventType string

const (
	TypeShiftStarted           EventType = "SHIFT_STARTED"
	TypeOrderCreated           EventType = "ORDER_CREATED"
	TypeOrderCommentAdded      EventType = "ORDER_COMMENT_ADDED"
	TypeChecklistTaskCompleted EventType = "CHECKLIST_TASK_COMPLETED"
	TypeProblemReported        EventType = "PROBLEM_REPORTED"
	TypeTaskUncompleted        EventType = "TASK_UNCOMPLETED"
	TypeShiftClosed            EventType = "SHIFT_CLOSED"
)

// PaymentMethod values accepted on order events. Online payments are
// settled like card payments everywhere metrics are concerned.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
)

// Event is an immutable record of one business occurrence within a shift.
// Events are never updated or deleted after append; every metric the
// service reports is derived by replaying a shift's event sequence.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	ShiftID    string          `json:"shiftId"`
	CompanyID  *string         `json:"companyId,omitempty"`
	PointID    *string         `json:"pointId,omitempty"`
	EmployeeID *string         `json:"employeeId,omitempty"`
	Type       EventType       `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// SortEvents orders events ascending by createdAt, ties broken by id, so a
// replay over the result is deterministic regardless of where the slice
// came from.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return strings.Compare(events[i].ID.String(), events[j].ID.String()) < 0
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

// OrderItem is one line of an order payload.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// ShiftStartedPayload marks the opening of a shift.
type ShiftStartedPayload struct {
	StartedAt time.Time `json:"startedAt"`
}

// OrderCreatedPayload records a sale.
type OrderCreatedPayload struct {
	OrderID       string      `json:"orderId"`
	TotalAmount   float64     `json:"totalAmount"`
	PaymentMethod string      `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
}

// OrderCommentAddedPayload attaches free text to an existing order.
type OrderCommentAddedPayload struct {
	OrderID string `json:"orderId"`
	Comment string `json:"comment"`
}

// ChecklistTaskCompletedPayload records completion of one checklist task.
type ChecklistTaskCompletedPayload struct {
	TaskID      string     `json:"taskId"`
	TaskName    string     `json:"taskName"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ProblemReportedPayload records an operational problem raised during the shift.
type ProblemReportedPayload struct {
	ProblemID    string     `json:"problemId"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Severity     string     `json:"severity"`
	ReportedAt   *time.Time `json:"reportedAt,omitempty"`
	IngredientID *string    `json:"ingredientId,omitempty"`
	ProductID    *string    `json:"productId,omitempty"`
}

// TaskUncompletedPayload records a checklist task flagged as not done.
type TaskUncompletedPayload struct {
	TaskID        string     `json:"taskId"`
	TaskName      string     `json:"taskName"`
	Reason        *string    `json:"reason,omitempty"`
	UncompletedAt *time.Time `json:"uncompletedAt,omitempty"`
}

// ShiftClosedPayload marks the end of a shift. The declared totals are
// optional overrides the closing manager may supply; when absent the
// aggregator derives them from the event stream itself.
type ShiftClosedPayload struct {
	ClosedAt       time.Time `json:"closedAt"`
	FinalRevenue   *float64  `json:"finalRevenue,omitempty"`
	FinalCash      *float64  `json:"finalCash,omitempty"`
	FinalCard      *float64  `json:"finalCard,omitempty"`
	ChecksCount    *int      `json:"checksCount,omitempty"`
	TasksCompleted *int      `json:"tasksCompleted,omitempty"`
	TasksTotal     *int      `json:"tasksTotal,omitempty"`
}
