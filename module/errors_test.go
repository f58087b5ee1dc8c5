package module

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonwraymond/camhal/hal"
)

func TestFilterOpenError(t *testing.T) {
	wrappedBusy := fmt.Errorf("vendor: %w", hal.StatusBusy)

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"busy", hal.StatusBusy, hal.StatusBusy},
		{"invalid", hal.StatusInvalid, hal.StatusInvalid},
		{"users", hal.StatusUsers, hal.StatusUsers},
		{"wrapped busy", wrappedBusy, wrappedBusy},
		{"io", hal.StatusIO, hal.StatusNoDevice},
		{"permission", hal.StatusPermission, hal.StatusNoDevice},
		{"no memory", hal.StatusNoMemory, hal.StatusNoDevice},
		{"timed out", hal.StatusTimedOut, hal.StatusNoDevice},
		{"no sys", hal.StatusNoSys, hal.StatusNoDevice},
		{"no device", hal.StatusNoDevice, hal.StatusNoDevice},
		{"plain error", errors.New("boom"), hal.StatusNoDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOpenError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrInvalidDeviceID_IsStatusInvalid(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidDeviceID, hal.StatusInvalid)
	s, ok := hal.StatusOf(ErrInvalidDeviceID)
	assert.True(t, ok)
	assert.Equal(t, hal.StatusInvalid, s)
}
