package hal

import (
	"errors"
	"fmt"
)

// Status is an errno-style result code returned by a hardware module.
// Zero is success; failures are negative.
type Status int32

// Status codes used by camera hardware modules.
const (
	StatusOK         Status = 0
	StatusPermission Status = -1
	StatusNoEntry    Status = -2
	StatusIO         Status = -5
	StatusNoMemory   Status = -12
	StatusBusy       Status = -16
	StatusNoDevice   Status = -19
	StatusInvalid    Status = -22
	StatusNoSys      Status = -38
	StatusUsers      Status = -87
	StatusTimedOut   Status = -110
)

var statusNames = map[Status]string{
	StatusOK:         "OK",
	StatusPermission: "EPERM",
	StatusNoEntry:    "ENOENT",
	StatusIO:         "EIO",
	StatusNoMemory:   "ENOMEM",
	StatusBusy:       "EBUSY",
	StatusNoDevice:   "ENODEV",
	StatusInvalid:    "EINVAL",
	StatusNoSys:      "ENOSYS",
	StatusUsers:      "EUSERS",
	StatusTimedOut:   "ETIMEDOUT",
}

// Error implements error.
func (s Status) Error() string {
	return "hal: " + s.String()
}

// String returns the errno name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// ParseStatus parses an errno name such as "EBUSY". The empty string and
// "OK" parse to StatusOK.
func ParseStatus(name string) (Status, error) {
	if name == "" {
		return StatusOK, nil
	}
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return StatusOK, fmt.Errorf("hal: unknown status %q", name)
}

// Err converts s to an error, returning nil for StatusOK.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	return s
}

// StatusOf extracts the Status carried by err. A nil error is StatusOK; an
// error without a Status reports ok=false.
func StatusOf(err error) (Status, bool) {
	if err == nil {
		return StatusOK, true
	}
	var s Status
	if errors.As(err, &s) {
		return s, true
	}
	return StatusOK, false
}
