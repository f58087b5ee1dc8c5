package module_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/camhal/metadata"
	"github.com/jonwraymond/camhal/module"
	"github.com/jonwraymond/camhal/sim"
)

func ExampleAdapter_CameraInfo() {
	m, err := sim.Load("../sim/testdata/phone.yaml")
	if err != nil {
		fmt.Println(err)
		return
	}
	adapter := module.MustNew(m)

	info, err := adapter.CameraInfo(context.Background(), 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	modes, _ := info.StaticCharacteristics.Find(metadata.ControlAvailableModes)
	for _, v := range modes.Bytes {
		fmt.Println(metadata.ControlModeName(v))
	}
	// Output:
	// off
	// auto
}

func ExampleAdapter_Open() {
	m, _ := sim.Load("../sim/testdata/legacy.toml")
	adapter := module.MustNew(m)

	_, err := adapter.Open(context.Background(), "1")
	fmt.Println(err)
	// Output: hal: ENODEV
}
