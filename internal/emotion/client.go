// Package emotion provides an HTTP client for the facial-emotion
// classification service.
package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "http://127.0.0.1:5005"

// ErrNoFace is returned when the classifier does not detect a face in the
// frame. Callers are expected to treat this as a skipped sample, not a
// failure of the capture session.
var ErrNoFace = errors.New("no face detected")

// Client is a client for a DeepFace-style emotion analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a classifier client for the given base URL.
// An empty baseURL falls back to the local default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Analyze classifies a single JPEG frame and returns the emotion sample for
// the first detected face. Returns ErrNoFace when the service reports no
// detection.
func (c *Client) Analyze(ctx context.Context, frame []byte) (*Sample, error) {
	reqBody := analyzeRequest{
		Image:   "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame),
		Actions: []string{"emotion"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %s: %s", resp.Status, string(raw))
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing analyze response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("classifier error: %s", parsed.Error)
	}
	if len(parsed.Results) == 0 || parsed.Results[0].DominantEmotion == "" {
		return nil, ErrNoFace
	}

	sample := parsed.Results[0]
	return &sample, nil
}
