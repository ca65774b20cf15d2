// Package camera abstracts the source of webcam frames for mood capture.
package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDeviceUnavailable is returned when the camera cannot be opened or does
// not produce a first frame. This aborts the whole capture session.
var ErrDeviceUnavailable = errors.New("camera unavailable")

// FrameSource produces JPEG frames at device rate.
type FrameSource interface {
	// NextFrame blocks briefly and returns the next available frame.
	NextFrame(ctx context.Context) ([]byte, error)

	// Close releases the underlying device or connection.
	Close() error
}

// SnapshotCamera reads frames from an HTTP snapshot endpoint, the interface
// exposed by IP-webcam apps and ustreamer-style daemons.
type SnapshotCamera struct {
	url        string
	httpClient *http.Client
}

// Open creates a SnapshotCamera and verifies the device by fetching one
// frame. Returns ErrDeviceUnavailable if the endpoint is unreachable.
func Open(snapshotURL string) (*SnapshotCamera, error) {
	cam := &SnapshotCamera{
		url: snapshotURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cam.NextFrame(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	return cam, nil
}

// NextFrame fetches a single JPEG snapshot from the camera endpoint.
func (c *SnapshotCamera) NextFrame(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building snapshot request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned %s", resp.Status)
	}

	frame, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(frame) == 0 {
		return nil, errors.New("empty snapshot")
	}

	return frame, nil
}

// Close releases idle connections to the camera endpoint.
func (c *SnapshotCamera) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var _ FrameSource = (*SnapshotCamera)(nil)
