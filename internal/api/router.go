package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shiftledger.service/internal/api/handler"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service handler.ShiftLogService) *mux.Router {

	shiftLogHandler := handler.ShiftLogHandler{
		Service: service,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/events", shiftLogHandler.AppendEvent).Methods(http.MethodPost)
	api.HandleFunc("/shifts/{shiftId}/metrics/basic", shiftLogHandler.GetBasicMetrics).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{shiftId}/metrics/operational", shiftLogHandler.GetOperationalMetrics).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{shiftId}/metrics/financial", shiftLogHandler.GetFinancialMetrics).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{shiftId}/metrics/quality", shiftLogHandler.GetQualityMetrics).Methods(http.MethodGet)
	api.HandleFunc("/shifts/{shiftId}/events", shiftLogHandler.ListShiftEvents).Methods(http.MethodGet)
	api.HandleFunc("/points/{pointId}/events", shiftLogHandler.ListLocationEvents).Methods(http.MethodGet)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
