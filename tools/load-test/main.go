package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	// Configuration
	url := "http://localhost:8080/api/v1/events"
	contentType := "application/json"

	numShifts := 50
	ordersPerShift := 200
	totalRequests := numShifts * ordersPerShift
	concurrency := 50 // Number of concurrent requests to avoid local port exhaustion

	fmt.Printf("Starting load test: %d shifts (%d orders each) to %s with concurrency %d\n", numShifts, ordersPerShift, url, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency) // Semaphore to limit concurrency

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < numShifts; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		shiftID := fmt.Sprintf("load-test-shift-%d", i)

		go func(shiftID string) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			for j := 0; j < ordersPerShift; j++ {
				method := "cash"
				if j%3 != 0 {
					method = "card"
				}
				payload := []byte(fmt.Sprintf(
					`{"shiftId": "%s", "type": "ORDER_CREATED", "payload": {"orderId": "%s-order-%d", "totalAmount": %d, "paymentMethod": "%s"}}`,
					shiftID, shiftID, j, 50+j%150, method))

				resp, err := http.Post(url, contentType, bytes.NewBuffer(payload))
				if err != nil {
					atomic.AddInt64(&failCount, 1)
					continue
				}

				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&failCount, 1)
				}
				resp.Body.Close()
			}
		}(shiftID)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
