package adapters

import (
	"context"
	"image"
	"image/color"
	"sync"

	"delivery-proof/internal/features/capture/ports"
)

// SimDevice is an in-process camera that synthesizes frames. It stands in
// for real hardware in tests and in offline runs.
type SimDevice struct {
	mu sync.Mutex
	// OpenErr, when set, makes every Open fail with it.
	OpenErr error
	opens   int
	handles []*SimHandle
}

// NewSimDevice returns a device that always succeeds.
func NewSimDevice() *SimDevice {
	return &SimDevice{}
}

// Open hands out a handle producing synthetic frames at the requested
// dimensions.
func (d *SimDevice) Open(ctx context.Context, constraints ports.Constraints) (ports.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.opens++
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}

	width, height := constraints.Width, constraints.Height
	if width <= 0 {
		width = 64
	}
	if height <= 0 {
		height = 48
	}

	h := &SimHandle{width: width, height: height}
	d.handles = append(d.handles, h)
	return h, nil
}

// Opens reports how many times the device has been requested.
func (d *SimDevice) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// OpenHandles reports how many issued handles have not been closed.
func (d *SimDevice) OpenHandles() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	open := 0
	for _, h := range d.handles {
		if !h.Closed() {
			open++
		}
	}
	return open
}

// SimHandle produces gray frames and tracks its own lifecycle.
type SimHandle struct {
	mu     sync.Mutex
	width  int
	height int
	frames int
	closed bool
}

func (h *SimHandle) Frame(ctx context.Context) (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.frames++
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	shade := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			img.SetRGBA(x, y, shade)
		}
	}
	return img, nil
}

func (h *SimHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Closed reports whether the handle has been released.
func (h *SimHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
