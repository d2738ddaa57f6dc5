package main

import (
	"encoding/json"
	"hash/fnv"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// Serves a canned pointAverageCheck baseline so the report worker can be
// exercised without the real management backend.

func averageCheckHandler(w http.ResponseWriter, r *http.Request) {
	pointID := mux.Vars(r)["pointId"]

	// Deterministic per point so repeated runs compare
	h := fnv.New32a()
	h.Write([]byte(pointID))
	baseline := 150.0 + float64(h.Sum32()%200)

	log.Printf("Serving average check %.2f for point %s", baseline, pointID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{"pointAverageCheck": baseline})
}

func main() {
	r := mux.NewRouter()
	r.HandleFunc("/points/{pointId}/average-check", averageCheckHandler).Methods(http.MethodGet)

	log.Println("Company API mock server starting on port 8081...")
	log.Fatal(http.ListenAndServe(":8081", r))
}
