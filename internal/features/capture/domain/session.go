package domain

import "errors"

// SessionState is the lifecycle state of a capture session.
type SessionState string

const (
	// SessionStateAcquiring: device access has been requested.
	SessionStateAcquiring SessionState = "acquiring"
	// SessionStateLive: the preview is active and a frame can be captured.
	SessionStateLive SessionState = "live"
	// SessionStateError: acquisition failed; retry is user-driven.
	SessionStateError SessionState = "error"
	// SessionStateFrozen: a frame has been captured and encoded; the device
	// handle is released.
	SessionStateFrozen SessionState = "frozen"
)

// ErrInvalidTransition is returned when an action is not legal in the
// session's current state.
var ErrInvalidTransition = errors.New("capture: invalid state transition")

// Device acquisition failure causes. Adapters wrap one of these so the
// session can classify the failure without knowing the device technology.
var (
	ErrPermissionDenied = errors.New("device permission denied")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrDeviceBusy       = errors.New("device busy")
	ErrConstraints      = errors.New("device constraints unsatisfiable")
	ErrInvalidParams    = errors.New("invalid device parameters")
)

// FailureKind is the user-facing category of a device acquisition failure.
type FailureKind string

const (
	FailurePermissionDenied FailureKind = "permission-denied"
	FailureDeviceNotFound   FailureKind = "device-not-found"
	FailureDeviceBusy       FailureKind = "device-busy"
	FailureConstraints      FailureKind = "constraints-unsatisfiable"
	FailureInvalidParams    FailureKind = "invalid-parameters"
	FailureUnknown          FailureKind = "unknown"
)

// ClassifyFailure maps a device error onto a failure category. The mapping is
// exhaustive over the causes the device port can report; only errors outside
// that set fall through to unknown.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return FailurePermissionDenied
	case errors.Is(err, ErrDeviceNotFound):
		return FailureDeviceNotFound
	case errors.Is(err, ErrDeviceBusy):
		return FailureDeviceBusy
	case errors.Is(err, ErrConstraints):
		return FailureConstraints
	case errors.Is(err, ErrInvalidParams):
		return FailureInvalidParams
	default:
		return FailureUnknown
	}
}

// Message returns the user-facing description for the failure category.
// Each category has a distinct message; none collapse to the generic one
// when a specific cause is determinable.
func (k FailureKind) Message() string {
	switch k {
	case FailurePermissionDenied:
		return "Camera access was denied. Allow camera access and retry."
	case FailureDeviceNotFound:
		return "No camera was found on this device."
	case FailureDeviceBusy:
		return "The camera is in use by another application."
	case FailureConstraints:
		return "The camera cannot provide the requested resolution."
	case FailureInvalidParams:
		return "The camera was asked for invalid settings."
	default:
		return "The camera could not be started."
	}
}
