package ports

import (
	"context"
	"image"
)

// Constraints are the preferred acquisition parameters.
type Constraints struct {
	// FacingMode is the preferred camera direction, e.g. "environment".
	FacingMode string
	// Width and Height are the target resolution in pixels. The device may
	// deliver its native resolution instead; it must not deliver less than
	// it can and claim success.
	Width  int
	Height int
}

// Device is the secondary port for camera acquisition. Open failures must
// wrap one of the capture domain's device errors so the session can classify
// them.
type Device interface {
	Open(ctx context.Context, constraints Constraints) (Handle, error)
}

// Handle is an exclusively owned, live camera. It must be closed by whoever
// opened it; Close is idempotent.
type Handle interface {
	// Frame returns a still frame at the feed's native dimensions.
	Frame(ctx context.Context) (image.Image, error)

	// Close releases the device.
	Close() error
}
