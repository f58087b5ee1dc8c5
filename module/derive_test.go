package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/metadata"
)

func availableModes(t *testing.T, md *metadata.Metadata) []uint8 {
	t.Helper()
	entry, ok := md.Find(metadata.ControlAvailableModes)
	require.True(t, ok, "availableModes missing")
	return entry.Bytes
}

func TestDeriveCharacteristicsKeys_SceneModes(t *testing.T) {
	tests := []struct {
		name   string
		scenes []uint8
		want   []uint8
	}{
		{
			name:   "disabled only",
			scenes: []uint8{metadata.SceneModeDisabled},
			want:   []uint8{metadata.ControlModeOff, metadata.ControlModeAuto},
		},
		{
			name:   "disabled and night",
			scenes: []uint8{metadata.SceneModeDisabled, metadata.SceneModeNight},
			want:   []uint8{metadata.ControlModeOff, metadata.ControlModeAuto, metadata.ControlModeUseSceneMode},
		},
		{
			name:   "single non-disabled",
			scenes: []uint8{metadata.SceneModeHDR},
			want:   []uint8{metadata.ControlModeOff, metadata.ControlModeAuto, metadata.ControlModeUseSceneMode},
		},
		{
			name: "absent",
			want: []uint8{metadata.ControlModeOff, metadata.ControlModeAuto},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := sceneModes(t, tt.scenes...)
			require.NoError(t, DeriveCharacteristicsKeys(hal.DeviceAPIVersion3_2, md))
			assert.Equal(t, tt.want, availableModes(t, md))
		})
	}
}

func TestDeriveCharacteristicsKeys_LockDefaults(t *testing.T) {
	md := sceneModes(t, metadata.SceneModeDisabled)
	require.NoError(t, md.UpdateBytes(metadata.ControlAELockAvailable, metadata.LockAvailableFalse))

	require.NoError(t, DeriveCharacteristicsKeys(hal.DeviceAPIVersion3_0, md))

	ae, ok := md.Find(metadata.ControlAELockAvailable)
	require.True(t, ok)
	assert.Equal(t, []uint8{metadata.LockAvailableFalse}, ae.Bytes, "existing value must be kept")

	awb, ok := md.Find(metadata.ControlAWBLockAvailable)
	require.True(t, ok)
	assert.Equal(t, []uint8{metadata.LockAvailableTrue}, awb.Bytes)
}

func TestDeriveCharacteristicsKeys_Idempotent(t *testing.T) {
	md := sceneModes(t, metadata.SceneModeDisabled, metadata.SceneModeNight)
	require.NoError(t, DeriveCharacteristicsKeys(hal.DeviceAPIVersion3_2, md))
	once := md.Clone()

	require.NoError(t, DeriveCharacteristicsKeys(hal.DeviceAPIVersion3_2, md))
	assert.True(t, once.Equal(md))
}

func TestDeriveCharacteristicsKeys_VersionBounds(t *testing.T) {
	for _, v := range []hal.Version{hal.DeviceAPIVersion1_0, hal.DeviceAPIVersion3_3, hal.MakeVersion(3, 5)} {
		t.Run(v.String(), func(t *testing.T) {
			md := sceneModes(t, metadata.SceneModeDisabled)
			before := md.Clone()
			require.NoError(t, DeriveCharacteristicsKeys(v, md))
			assert.True(t, before.Equal(md), "metadata changed for version %s", v)
		})
	}

	md := sceneModes(t)
	require.NoError(t, DeriveCharacteristicsKeys(hal.DeviceAPIVersion2_0, md))
	assert.True(t, md.Exists(metadata.ControlAvailableModes), "2.0 is in range")
}

func TestDeriveCharacteristicsKeys_Locked(t *testing.T) {
	md := sceneModes(t).Lock()
	err := DeriveCharacteristicsKeys(hal.DeviceAPIVersion3_2, md)
	assert.ErrorIs(t, err, metadata.ErrLocked)
}
