package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrModelNotConfigured means no inference service URL was supplied at
// startup, the Go equivalent of the trained model file being absent.
var ErrModelNotConfigured = errors.New("model service not configured")

// ModelClient calls the sleep-disorder inference service. The trained
// classifier is an opaque external dependency: this client only ships the
// feature vector over and maps the returned class index back.
type ModelClient struct {
	baseURL string
	client  *http.Client
}

func NewModelClient(baseURL string, timeout time.Duration) *ModelClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ModelClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ModelClient) IsConfigured() bool {
	return c != nil && c.baseURL != ""
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Class int    `json:"class"`
	Error string `json:"error,omitempty"`
}

// Predict sends the ordered feature vector and returns the predicted class
// index (0 = none, 1 = insomnia, 2 = sleep apnea).
func (c *ModelClient) Predict(ctx context.Context, features []float64) (int, error) {
	if !c.IsConfigured() {
		return 0, ErrModelNotConfigured
	}

	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model service returned %d: %s", resp.StatusCode, string(data))
	}

	var pr predictResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if pr.Error != "" {
		return 0, fmt.Errorf("model service: %s", pr.Error)
	}
	return pr.Class, nil
}
