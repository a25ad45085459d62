package camera

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/sirupsen/logrus"
)

// Client fetches still images from LAN gate cameras over their /capture
// endpoint. The cameras are ESP32-class devices: a single GET returns one
// JPEG frame.
type Client struct {
	http *http.Client
	log  *logrus.Logger

	// Attempts and RetryPause bound the per-capture retry policy. The
	// per-attempt timeout lives on the embedded http.Client.
	Attempts   int
	RetryPause time.Duration
}

// NewClient creates a capture client with the LAN defaults: 3 attempts,
// 2-second per-attempt timeout, 100ms pause between failed attempts.
func NewClient(log *logrus.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: 2 * time.Second},
		log:        log,
		Attempts:   3,
		RetryPause: 100 * time.Millisecond,
	}
}

// Capture fetches one frame from http://{endpoint}/capture. The first 200
// response wins and aborts the remaining attempts. When every attempt fails
// the returned error wraps models.ErrCameraUnavailable; callers treat that as
// a failed round, never as a fatal condition.
func (c *Client) Capture(ctx context.Context, endpoint string) ([]byte, error) {
	url := fmt.Sprintf("http://%s/capture", endpoint)

	var lastErr error
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		img, err := c.fetch(ctx, url)
		if err == nil {
			return img, nil
		}
		lastErr = err
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"attempt":  attempt,
		}).Warnf("capture failed: %v", err)

		if attempt < c.Attempts {
			select {
			case <-time.After(c.RetryPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("%w: %s: %v", models.ErrCameraUnavailable, endpoint, lastErr)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
