package module

import (
	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/metadata"
)

// DeriveCharacteristicsKeys adds capability keys that devices older than
// device API 3.3 do not report. Devices below 2.0 and at or above 3.3 are
// left unchanged. Running it more than once gives the same result.
//
// For devices in [2.0, 3.3):
//   - ControlAELockAvailable and ControlAWBLockAvailable default to TRUE
//     when absent.
//   - ControlAvailableModes is set to [OFF, AUTO], plus USE_SCENE_MODE when
//     the device lists any scene mode other than DISABLED.
func DeriveCharacteristicsKeys(deviceVersion hal.Version, md *metadata.Metadata) error {
	if deviceVersion < hal.DeviceAPIVersion2_0 || deviceVersion >= hal.DeviceAPIVersion3_3 {
		return nil
	}

	for _, tag := range []metadata.Tag{metadata.ControlAELockAvailable, metadata.ControlAWBLockAvailable} {
		if md.Exists(tag) {
			continue
		}
		if err := md.UpdateBytes(tag, metadata.LockAvailableTrue); err != nil {
			return err
		}
	}

	modes := []uint8{metadata.ControlModeOff, metadata.ControlModeAuto}
	if hasSceneModes(md) {
		modes = append(modes, metadata.ControlModeUseSceneMode)
	}
	return md.UpdateBytes(metadata.ControlAvailableModes, modes...)
}

// hasSceneModes reports whether the device supports a scene mode other than
// DISABLED. A missing or empty list counts as DISABLED only.
func hasSceneModes(md *metadata.Metadata) bool {
	entry, ok := md.Find(metadata.ControlAvailableSceneModes)
	if !ok || len(entry.Bytes) == 0 {
		return false
	}
	return len(entry.Bytes) > 1 || entry.Bytes[0] != metadata.SceneModeDisabled
}
