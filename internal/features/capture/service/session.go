package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"sync"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/features/capture/domain"
	"delivery-proof/internal/features/capture/ports"
	notifdomain "delivery-proof/internal/features/notifications/domain"
	notifports "delivery-proof/internal/features/notifications/ports"

	"go.uber.org/zap"
)

// Session owns one camera handle and walks it through the capture lifecycle:
// acquiring -> live -> frozen, with error as the failure branch of
// acquisition. The handle is exclusively owned: it is released on capture,
// on teardown and on a visibility loss, and a frozen session holds none.
type Session struct {
	device      ports.Device
	constraints ports.Constraints
	notifier    notifports.Notifier
	log         *zap.Logger

	mu      sync.Mutex
	state   domain.SessionState
	handle  ports.Handle
	photo   string
	failure domain.FailureKind
	// epoch invalidates acquisitions that complete after the session moved
	// on (teardown or a newer acquisition).
	epoch  uint64
	closed bool
	// resumeOnVisible is set when a visibility loss interrupted a live
	// preview; the stale handle is not trusted across backgrounding.
	resumeOnVisible bool
}

// NewSession creates a Session in the acquiring state. Call Start to request
// the device.
func NewSession(device ports.Device, constraints ports.Constraints, notifier notifports.Notifier) *Session {
	return &Session{
		device:      device,
		constraints: constraints,
		notifier:    notifier,
		log:         logger.Named("capture"),
		state:       domain.SessionStateAcquiring,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Failure returns the classified cause of the last acquisition failure.
// Only meaningful in the error state.
func (s *Session) Failure() domain.FailureKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// Photo returns the encoded image. Only non-empty while frozen.
func (s *Session) Photo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photo
}

// Start requests device access. Legal only while acquiring.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.SessionStateAcquiring {
		s.mu.Unlock()
		return fmt.Errorf("%w: start from %s", domain.ErrInvalidTransition, s.state)
	}
	s.mu.Unlock()

	return s.acquire(ctx)
}

// Capture takes a still frame at the feed's native dimensions, encodes it as
// a JPEG data URL, releases the device handle and freezes the session.
func (s *Session) Capture(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateLive {
		return fmt.Errorf("%w: capture from %s", domain.ErrInvalidTransition, s.state)
	}

	frame, err := s.handle.Frame(ctx)
	if err != nil {
		s.log.Error("Failed to grab frame", zap.Error(err))
		return fmt.Errorf("capture: failed to grab frame: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, nil); err != nil {
		s.log.Error("Failed to encode frame", zap.Error(err))
		return fmt.Errorf("capture: failed to encode frame: %w", err)
	}

	s.photo = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	s.releaseHandleLocked()
	s.state = domain.SessionStateFrozen
	return nil
}

// Retake discards the captured image and re-requests the device.
func (s *Session) Retake(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.SessionStateFrozen {
		s.mu.Unlock()
		return fmt.Errorf("%w: retake from %s", domain.ErrInvalidTransition, s.state)
	}
	s.photo = ""
	s.state = domain.SessionStateAcquiring
	s.mu.Unlock()

	return s.acquire(ctx)
}

// Confirm hands the encoded image to the caller. Ownership of the image
// passes with it; the session's job is done.
func (s *Session) Confirm() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.SessionStateFrozen {
		return "", fmt.Errorf("%w: confirm from %s", domain.ErrInvalidTransition, s.state)
	}
	return s.photo, nil
}

// Retry re-enters acquisition after a failure. Retry is user-driven only;
// the session never retries on its own.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != domain.SessionStateError {
		s.mu.Unlock()
		return fmt.Errorf("%w: retry from %s", domain.ErrInvalidTransition, s.state)
	}
	s.state = domain.SessionStateAcquiring
	s.mu.Unlock()

	return s.acquire(ctx)
}

// VisibilityChanged reacts to the hosting surface being hidden or shown.
// A handle held across a backgrounding event is not trusted: hiding while
// live stops the device, and the next show re-acquires it. A frozen session
// holds no handle and needs no restart.
func (s *Session) VisibilityChanged(ctx context.Context, visible bool) error {
	s.mu.Lock()

	if !visible {
		if s.state == domain.SessionStateLive {
			s.releaseHandleLocked()
			s.state = domain.SessionStateAcquiring
			s.resumeOnVisible = true
		}
		s.mu.Unlock()
		return nil
	}

	if !s.resumeOnVisible {
		s.mu.Unlock()
		return nil
	}
	s.resumeOnVisible = false
	s.mu.Unlock()

	return s.acquire(ctx)
}

// Close releases the device handle. Acquisitions still in flight are dropped
// when they complete; they never mutate a closed session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.epoch++
	s.releaseHandleLocked()
	return nil
}

// acquire opens the device and settles the session into live or error.
// Acquisition failures are surfaced exactly once, at this transition.
func (s *Session) acquire(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.state = domain.SessionStateAcquiring
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	handle, err := s.device.Open(ctx, s.constraints)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || epoch != s.epoch {
		// The owner moved on while the device was being opened.
		if handle != nil {
			handle.Close()
		}
		return nil
	}

	if err != nil {
		s.failure = domain.ClassifyFailure(err)
		s.state = domain.SessionStateError
		s.log.Error("Device acquisition failed",
			zap.Error(err), zap.String("cause", string(s.failure)))
		s.notifier.Notify(ctx, notifdomain.NotificationTypeDanger,
			"Camera unavailable", s.failure.Message())
		return fmt.Errorf("capture: failed to acquire device: %w", err)
	}

	s.handle = handle
	s.state = domain.SessionStateLive
	return nil
}

// releaseHandleLocked closes and drops the handle. Callers hold s.mu.
func (s *Session) releaseHandleLocked() {
	if s.handle == nil {
		return
	}
	if err := s.handle.Close(); err != nil {
		s.log.Warn("Failed to release device handle", zap.Error(err))
	}
	s.handle = nil
}
