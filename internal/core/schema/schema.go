// Package schema gates what may enter the event log. Every append is
// validated against the closed set of event kinds before it is persisted,
// which keeps the aggregator's replay exhaustive: an event type the replay
// does not understand can never reach storage.
package schema

import (
	"encoding/json"
	"fmt"

	"shiftledger.service/internal/core/model"
)

// Error reports a rejected event: an unknown kind, or a payload missing a
// required field for its kind.
type Error struct {
	Type   model.EventType
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("schema: %s: field %q %s", e.Type, e.Field, e.Reason)
}

type validator func(payload json.RawMessage) *Error

var registry = map[model.EventType]validator{
	model.TypeShiftStarted:           validateShiftStarted,
	model.TypeOrderCreated:           validateOrderCreated,
	model.TypeOrderCommentAdded:      validateOrderComment,
	model.TypeChecklistTaskCompleted: validateTaskCompleted,
	model.TypeProblemReported:        validateProblemReported,
	model.TypeTaskUncompleted:        validateTaskUncompleted,
	model.TypeShiftClosed:            validateShiftClosed,
}

// Known reports whether t is one of the event kinds the service understands.
func Known(t model.EventType) bool {
	_, ok := registry[t]
	return ok
}

// Validate accepts or rejects a candidate event payload for the given kind.
// A nil return means the event may be appended.
func Validate(t model.EventType, payload json.RawMessage) error {
	v, ok := registry[t]
	if !ok {
		return &Error{Type: t, Reason: "unknown event type"}
	}
	if err := v(payload); err != nil {
		return err
	}
	return nil
}

func decode(t model.EventType, payload json.RawMessage, dst any) *Error {
	if len(payload) == 0 {
		return &Error{Type: t, Reason: "payload is required"}
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return &Error{Type: t, Reason: "payload is not valid JSON for this type: " + err.Error()}
	}
	return nil
}

func validateShiftStarted(payload json.RawMessage) *Error {
	var p model.ShiftStartedPayload
	if err := decode(model.TypeShiftStarted, payload, &p); err != nil {
		return err
	}
	if p.StartedAt.IsZero() {
		return &Error{Type: model.TypeShiftStarted, Field: "startedAt", Reason: "is required"}
	}
	return nil
}

func validateOrderCreated(payload json.RawMessage) *Error {
	var p model.OrderCreatedPayload
	if err := decode(model.TypeOrderCreated, payload, &p); err != nil {
		return err
	}
	if p.OrderID == "" {
		return &Error{Type: model.TypeOrderCreated, Field: "orderId", Reason: "is required"}
	}
	if p.TotalAmount < 0 {
		return &Error{Type: model.TypeOrderCreated, Field: "totalAmount", Reason: "must not be negative"}
	}
	switch p.PaymentMethod {
	case model.PaymentCash, model.PaymentCard, model.PaymentOnline:
	default:
		return &Error{Type: model.TypeOrderCreated, Field: "paymentMethod", Reason: "must be cash, card or online"}
	}
	return nil
}

func validateOrderComment(payload json.RawMessage) *Error {
	var p model.OrderCommentAddedPayload
	if err := decode(model.TypeOrderCommentAdded, payload, &p); err != nil {
		return err
	}
	if p.OrderID == "" {
		return &Error{Type: model.TypeOrderCommentAdded, Field: "orderId", Reason: "is required"}
	}
	if p.Comment == "" {
		return &Error{Type: model.TypeOrderCommentAdded, Field: "comment", Reason: "is required"}
	}
	return nil
}

func validateTaskCompleted(payload json.RawMessage) *Error {
	var p model.ChecklistTaskCompletedPayload
	if err := decode(model.TypeChecklistTaskCompleted, payload, &p); err != nil {
		return err
	}
	if p.TaskID == "" {
		return &Error{Type: model.TypeChecklistTaskCompleted, Field: "taskId", Reason: "is required"}
	}
	return nil
}

func validateProblemReported(payload json.RawMessage) *Error {
	var p model.ProblemReportedPayload
	if err := decode(model.TypeProblemReported, payload, &p); err != nil {
		return err
	}
	if p.ProblemID == "" {
		return &Error{Type: model.TypeProblemReported, Field: "problemId", Reason: "is required"}
	}
	if p.Category == "" {
		return &Error{Type: model.TypeProblemReported, Field: "category", Reason: "is required"}
	}
	if p.Severity == "" {
		return &Error{Type: model.TypeProblemReported, Field: "severity", Reason: "is required"}
	}
	return nil
}

func validateTaskUncompleted(payload json.RawMessage) *Error {
	var p model.TaskUncompletedPayload
	if err := decode(model.TypeTaskUncompleted, payload, &p); err != nil {
		return err
	}
	if p.TaskID == "" {
		return &Error{Type: model.TypeTaskUncompleted, Field: "taskId", Reason: "is required"}
	}
	return nil
}

func validateShiftClosed(payload json.RawMessage) *Error {
	var p model.ShiftClosedPayload
	if err := decode(model.TypeShiftClosed, payload, &p); err != nil {
		return err
	}
	if p.ClosedAt.IsZero() {
		return &Error{Type: model.TypeShiftClosed, Field: "closedAt", Reason: "is required"}
	}
	if p.TasksTotal != nil && *p.TasksTotal < 0 {
		return &Error{Type: model.TypeShiftClosed, Field: "tasksTotal", Reason: "must not be negative"}
	}
	return nil
}
