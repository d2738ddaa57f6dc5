package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger.service/internal/core/model"
)

func TestKnown(t *testing.T) {
	for _, typ := range []model.EventType{
		model.TypeShiftStarted,
		model.TypeOrderCreated,
		model.TypeOrderCommentAdded,
		model.TypeChecklistTaskCompleted,
		model.TypeProblemReported,
		model.TypeTaskUncompleted,
		model.TypeShiftClosed,
	} {
		assert.True(t, Known(typ), string(typ))
	}
	assert.False(t, Known(model.EventType("ORDER_CANCELLED")))
	assert.False(t, Known(model.EventType("")))
}

func TestValidateUnknownType(t *testing.T) {
	err := Validate(model.EventType("SHIFT_PAUSED"), json.RawMessage(`{}`))
	require.Error(t, err)

	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, model.EventType("SHIFT_PAUSED"), schemaErr.Type)
	assert.Empty(t, schemaErr.Field)
}

func TestValidateAccepts(t *testing.T) {
	cases := []struct {
		typ     model.EventType
		payload string
	}{
		{model.TypeShiftStarted, `{"startedAt":"2026-03-14T09:00:00Z"}`},
		{model.TypeOrderCreated, `{"orderId":"o-1","totalAmount":120.5,"paymentMethod":"cash"}`},
		{model.TypeOrderCreated, `{"orderId":"o-2","totalAmount":0,"paymentMethod":"online"}`},
		{model.TypeOrderCommentAdded, `{"orderId":"o-1","comment":"no onions"}`},
		{model.TypeChecklistTaskCompleted, `{"taskId":"t-1","taskName":"clean grill"}`},
		{model.TypeProblemReported, `{"problemId":"p-1","category":"equipment","severity":"high"}`},
		{model.TypeTaskUncompleted, `{"taskId":"t-2"}`},
		{model.TypeShiftClosed, `{"closedAt":"2026-03-14T17:00:00Z","tasksTotal":4}`},
		{model.TypeShiftClosed, `{"closedAt":"2026-03-14T17:00:00Z"}`},
	}

	for _, tc := range cases {
		assert.NoError(t, Validate(tc.typ, json.RawMessage(tc.payload)), "%s %s", tc.typ, tc.payload)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		typ     model.EventType
		payload string
		field   string
	}{
		{"shift started without startedAt", model.TypeShiftStarted, `{}`, "startedAt"},
		{"order without orderId", model.TypeOrderCreated, `{"totalAmount":10,"paymentMethod":"cash"}`, "orderId"},
		{"order with negative amount", model.TypeOrderCreated, `{"orderId":"o-1","totalAmount":-5,"paymentMethod":"cash"}`, "totalAmount"},
		{"order with bogus payment method", model.TypeOrderCreated, `{"orderId":"o-1","totalAmount":10,"paymentMethod":"barter"}`, "paymentMethod"},
		{"order without payment method", model.TypeOrderCreated, `{"orderId":"o-1","totalAmount":10}`, "paymentMethod"},
		{"comment without text", model.TypeOrderCommentAdded, `{"orderId":"o-1"}`, "comment"},
		{"comment without orderId", model.TypeOrderCommentAdded, `{"comment":"late"}`, "orderId"},
		{"task completed without taskId", model.TypeChecklistTaskCompleted, `{"taskName":"x"}`, "taskId"},
		{"problem without problemId", model.TypeProblemReported, `{"category":"c","severity":"s"}`, "problemId"},
		{"problem without category", model.TypeProblemReported, `{"problemId":"p-1","severity":"s"}`, "category"},
		{"problem without severity", model.TypeProblemReported, `{"problemId":"p-1","category":"c"}`, "severity"},
		{"task uncompleted without taskId", model.TypeTaskUncompleted, `{}`, "taskId"},
		{"shift closed without closedAt", model.TypeShiftClosed, `{"tasksTotal":3}`, "closedAt"},
		{"shift closed with negative tasksTotal", model.TypeShiftClosed, `{"closedAt":"2026-03-14T17:00:00Z","tasksTotal":-1}`, "tasksTotal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.typ, json.RawMessage(tc.payload))
			require.Error(t, err)

			var schemaErr *Error
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tc.field, schemaErr.Field)
		})
	}
}

func TestValidateMalformedPayload(t *testing.T) {
	err := Validate(model.TypeOrderCreated, json.RawMessage(`{not json`))
	require.Error(t, err)

	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr))
	assert.Empty(t, schemaErr.Field)
}

func TestValidateEmptyPayload(t *testing.T) {
	err := Validate(model.TypeOrderCreated, nil)
	require.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	withField := &Error{Type: model.TypeOrderCreated, Field: "orderId", Reason: "is required"}
	assert.Contains(t, withField.Error(), "orderId")

	withoutField := &Error{Type: model.EventType("NOPE"), Reason: "unknown event type"}
	assert.Contains(t, withoutField.Error(), "unknown event type")
}
