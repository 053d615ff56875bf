package capture

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Retry defaults for camera startup. Webcams held by another process
// usually free up within a few seconds.
const (
	DefaultRetryAttempts = 5
	DefaultRetryDelay    = 2 * time.Second
)

// OpenWithRetry opens the camera, retrying with a fixed delay when the
// device is busy or missing. It gives up after attempts tries or when
// the context is canceled, returning the last open error.
func OpenWithRetry(ctx context.Context, cam Camera, attempts int, delay time.Duration) error {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = cam.Open()
		if lastErr == nil {
			return nil
		}

		if i < attempts-1 {
			log.Printf("camera open failed (attempt %d/%d): %v", i+1, attempts, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("open camera after %d attempts: %w", attempts, lastErr)
}
