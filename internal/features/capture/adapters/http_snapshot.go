package adapters

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net"
	"net/http"
	"time"

	"delivery-proof/internal/core/httpclient"
	"delivery-proof/internal/features/capture/domain"
	"delivery-proof/internal/features/capture/ports"
)

const snapshotTimeout = 10 * time.Second

// HTTPSnapshotDevice exposes a network camera that serves still frames over
// HTTP (an IP camera snapshot endpoint) as a capture device. Open probes the
// endpoint once so that acquisition failures surface at open time, not at
// the first frame.
type HTTPSnapshotDevice struct {
	url    string
	client *http.Client
}

// NewHTTPSnapshotDevice points the device at a snapshot URL.
func NewHTTPSnapshotDevice(url string) *HTTPSnapshotDevice {
	return &HTTPSnapshotDevice{
		url:    url,
		client: httpclient.NewClient(snapshotTimeout),
	}
}

func (d *HTTPSnapshotDevice) Open(ctx context.Context, constraints ports.Constraints) (ports.Handle, error) {
	if constraints.Width < 0 || constraints.Height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d",
			domain.ErrInvalidParams, constraints.Width, constraints.Height)
	}

	frame, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}

	bounds := frame.Bounds()
	if (constraints.Width > 0 && bounds.Dx() < constraints.Width) ||
		(constraints.Height > 0 && bounds.Dy() < constraints.Height) {
		return nil, fmt.Errorf("%w: camera serves %dx%d, requested %dx%d",
			domain.ErrConstraints, bounds.Dx(), bounds.Dy(),
			constraints.Width, constraints.Height)
	}

	return &httpSnapshotHandle{device: d, probe: frame}, nil
}

// fetch grabs one frame and maps transport and status failures onto the
// device error taxonomy.
func (d *HTTPSnapshotDevice) fetch(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidParams, d.url)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		var netErr *net.OpError
		if errors.As(err, &netErr) {
			return nil, fmt.Errorf("%w: %s unreachable: %v", domain.ErrDeviceNotFound, d.url, err)
		}
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: camera returned %d", domain.ErrPermissionDenied, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: camera returned %d", domain.ErrDeviceNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: camera returned %d", domain.ErrDeviceBusy, resp.StatusCode)
	default:
		return nil, fmt.Errorf("camera returned unexpected status %d", resp.StatusCode)
	}

	frame, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return frame, nil
}

// httpSnapshotHandle serves the probe frame first, then fetches fresh ones.
type httpSnapshotHandle struct {
	device *HTTPSnapshotDevice
	probe  image.Image
	closed bool
}

func (h *httpSnapshotHandle) Frame(ctx context.Context) (image.Image, error) {
	if h.closed {
		return nil, errors.New("snapshot handle is closed")
	}
	if h.probe != nil {
		frame := h.probe
		h.probe = nil
		return frame, nil
	}
	return h.device.fetch(ctx)
}

func (h *httpSnapshotHandle) Close() error {
	h.closed = true
	h.probe = nil
	return nil
}
