package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/core/schema"
	"shiftledger.service/internal/ports/repository"
)

// ShiftLogService is the query-layer contract the HTTP handlers sit on.
type ShiftLogService interface {
	AppendEvent(ctx context.Context, event model.Event) (model.Event, error)
	GetBasicMetrics(ctx context.Context, shiftID string) (model.BasicMetrics, error)
	GetOperationalMetrics(ctx context.Context, shiftID string) (model.OperationalMetrics, error)
	GetFinancialMetrics(ctx context.Context, shiftID string, pointAverageCheck float64) (model.FinancialMetrics, error)
	GetQualityMetrics(ctx context.Context, shiftID string) (model.QualityMetrics, error)
	ListShiftEvents(ctx context.Context, shiftID string, eventType model.EventType) ([]model.Event, error)
	ListLocationEvents(ctx context.Context, pointID string, start, end time.Time) ([]model.Event, error)
}

type ShiftLogHandler struct {
	Service ShiftLogService
}

// AppendEvent records one shift event.
func (h *ShiftLogHandler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	var event model.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if event.ShiftID == "" {
		http.Error(w, "shiftId is required", http.StatusBadRequest)
		return
	}

	appended, err := h.Service.AppendEvent(r.Context(), event)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appended)
}

// GetBasicMetrics returns the basic metric family for one shift.
func (h *ShiftLogHandler) GetBasicMetrics(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shiftId"]

	m, err := h.Service.GetBasicMetrics(r.Context(), shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, m)
}

// GetOperationalMetrics returns the operational metric family for one shift.
func (h *ShiftLogHandler) GetOperationalMetrics(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shiftId"]

	m, err := h.Service.GetOperationalMetrics(r.Context(), shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, m)
}

// GetFinancialMetrics returns the financial metric family for one shift.
// The point baseline comes from the caller via ?pointAverageCheck=; without
// it the deviation figures are zero.
func (h *ShiftLogHandler) GetFinancialMetrics(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shiftId"]

	var baseline float64
	if raw := r.URL.Query().Get("pointAverageCheck"); raw != "" {
		var err error
		baseline, err = strconv.ParseFloat(raw, 64)
		if err != nil || baseline < 0 {
			http.Error(w, "pointAverageCheck must be a non-negative number", http.StatusBadRequest)
			return
		}
	}

	m, err := h.Service.GetFinancialMetrics(r.Context(), shiftID, baseline)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, m)
}

// GetQualityMetrics returns the quality metric family for one shift.
func (h *ShiftLogHandler) GetQualityMetrics(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shiftId"]

	m, err := h.Service.GetQualityMetrics(r.Context(), shiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, m)
}

// ListShiftEvents returns a shift's raw event sequence, optionally filtered
// by ?type=.
func (h *ShiftLogHandler) ListShiftEvents(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shiftId"]
	eventType := model.EventType(r.URL.Query().Get("type"))

	events, err := h.Service.ListShiftEvents(r.Context(), shiftID, eventType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, events)
}

// ListLocationEvents returns all events at one point within the
// ?from=&to= window (RFC 3339).
func (h *ShiftLogHandler) ListLocationEvents(w http.ResponseWriter, r *http.Request) {
	pointID := mux.Vars(r)["pointId"]

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "from must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "to must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		http.Error(w, "to must not be before from", http.StatusBadRequest)
		return
	}

	events, err := h.Service.ListLocationEvents(r.Context(), pointID, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, events)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto status codes. Storage failures
// stay hard 5xx failures: reporting zero revenue during an outage would be
// worse than reporting the outage.
func writeServiceError(w http.ResponseWriter, err error) {
	var schemaErr *schema.Error
	switch {
	case errors.As(err, &schemaErr):
		http.Error(w, schemaErr.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrScanCancelled):
		http.Error(w, "Scan cancelled before completion", http.StatusGatewayTimeout)
	default:
		http.Error(w, "Service error processing request", http.StatusInternalServerError)
	}
}
