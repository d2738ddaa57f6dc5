package companyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is the contract for the company management backend, which knows
// cross-shift figures the event log does not: here, the point's average
// check used as the financial-deviation baseline.
type Client interface {
	PointAverageCheck(ctx context.Context, pointID string) (float64, error)
}

// HTTPClient talks to the management backend over HTTP.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient new HTTPClient
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// PointAverageCheck fetches the baseline average check for one point.
func (c *HTTPClient) PointAverageCheck(ctx context.Context, pointID string) (float64, error) {
	endpoint := fmt.Sprintf("%spoints/%s/average-check", c.baseURL, url.PathEscape(pointID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create company api request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call company api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("company api returned non-successful status code: %d", resp.StatusCode)
	}

	var body struct {
		PointAverageCheck float64 `json:"pointAverageCheck"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode company api response: %w", err)
	}
	return body.PointAverageCheck, nil
}
