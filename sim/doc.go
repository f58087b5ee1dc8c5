// Package sim provides a simulated camera hardware module.
//
// The module is described by a descriptor file, YAML (.yaml, .yml) or TOML
// (.toml), listing the module identity, its cameras and their static
// characteristics, and optional vendor tags. Cameras can be told to fail
// info queries or opens with a given status, which makes the simulator
// useful for exercising error paths:
//
//	d, err := sim.LoadDescriptor("testdata/phone.yaml")
//	if err != nil {
//	    return err
//	}
//	m, err := sim.New(d)
//	if err != nil {
//	    return err
//	}
//	adapter, err := module.New(m)
//
// Open enforces the rules real modules apply: one client per device, no
// device opened while a conflicting one is open, and at most
// MaxOpenCameras devices open at once.
package sim
