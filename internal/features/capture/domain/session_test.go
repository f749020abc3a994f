package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"permission denied", ErrPermissionDenied, FailurePermissionDenied},
		{"not found", ErrDeviceNotFound, FailureDeviceNotFound},
		{"busy", ErrDeviceBusy, FailureDeviceBusy},
		{"constraints", ErrConstraints, FailureConstraints},
		{"invalid params", ErrInvalidParams, FailureInvalidParams},
		{"wrapped cause", fmt.Errorf("open camera: %w", ErrDeviceBusy), FailureDeviceBusy},
		{"unrelated error", errors.New("socket closed"), FailureUnknown},
		{"nil", nil, FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

// Each determinable cause has its own message; only truly unknown failures
// collapse to the generic one.
func TestFailureKind_MessagesAreDistinct(t *testing.T) {
	kinds := []FailureKind{
		FailurePermissionDenied,
		FailureDeviceNotFound,
		FailureDeviceBusy,
		FailureConstraints,
		FailureInvalidParams,
		FailureUnknown,
	}

	seen := make(map[string]FailureKind, len(kinds))
	for _, k := range kinds {
		msg := k.Message()
		assert.NotEmpty(t, msg)
		if prev, dup := seen[msg]; dup {
			t.Fatalf("%s and %s share the message %q", prev, k, msg)
		}
		seen[msg] = k
	}
}
