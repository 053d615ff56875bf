package overlay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultClientTimeout bounds a single overlay update. The overlay is
// best effort: a slow or dead server must never stall the capture loop
// longer than this.
const DefaultClientTimeout = time.Second

// Client publishes decision snapshots to an overlay server over HTTP.
// Delivery is at-least-once, best effort: failures are reported to the
// caller for logging and then forgotten, never retried.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a Client for the overlay at baseURL (for example
// "http://localhost:8000"). A non-positive timeout falls back to
// DefaultClientTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{
		url:  baseURL + "/api/update",
		http: &http.Client{Timeout: timeout},
	}
}

// Publish POSTs one update to the overlay.
func (c *Client) Publish(ctx context.Context, u Update) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("overlay update failed with status %d", resp.StatusCode)
	}
	return nil
}
