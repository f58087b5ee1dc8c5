package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/metadata"
	"github.com/jonwraymond/camhal/resilience"
)

var errUsage = errors.New("usage error")

func newFlagSet(e *env, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: camhal %s %s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

// CameraOutput is the list/info view of one camera.
type CameraOutput struct {
	ID                 int           `json:"id" yaml:"id"`
	Facing             string        `json:"facing,omitempty" yaml:"facing,omitempty"`
	Orientation        int           `json:"orientation" yaml:"orientation"`
	DeviceVersion      string        `json:"deviceVersion,omitempty" yaml:"deviceVersion,omitempty"`
	ResourceCost       int           `json:"resourceCost" yaml:"resourceCost"`
	ConflictingDevices []string      `json:"conflictingDevices,omitempty" yaml:"conflictingDevices,omitempty"`
	Error              string        `json:"error,omitempty" yaml:"error,omitempty"`
	Characteristics    []EntryOutput `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`
}

// EntryOutput is one metadata entry.
type EntryOutput struct {
	Tag    string `json:"tag" yaml:"tag"`
	Type   string `json:"type" yaml:"type"`
	Values any    `json:"values" yaml:"values"`
}

func cameraOutput(id int, info hal.Info, err error) CameraOutput {
	out := CameraOutput{ID: id}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Facing = info.Facing.String()
	out.Orientation = info.Orientation
	out.DeviceVersion = info.DeviceVersion.String()
	out.ResourceCost = info.ResourceCost
	out.ConflictingDevices = info.ConflictingDevices
	return out
}

func entryOutputs(md *metadata.Metadata, vendor vendorNamer) []EntryOutput {
	entries := md.Entries()
	out := make([]EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryOutput{
			Tag:    vendor.tagName(e.Tag),
			Type:   e.Type.String(),
			Values: entryValues(e),
		})
	}
	return out
}

// entryValues renders enum entries by name.
func entryValues(e metadata.Entry) any {
	var name func(uint8) string
	switch e.Tag {
	case metadata.ControlAvailableSceneModes:
		name = metadata.SceneModeName
	case metadata.ControlAvailableModes:
		name = metadata.ControlModeName
	default:
		if e.Type == metadata.TypeByte {
			// []uint8 would encode as base64 in JSON.
			ints := make([]int, len(e.Bytes))
			for i, v := range e.Bytes {
				ints[i] = int(v)
			}
			return ints
		}
		return e.Values()
	}
	names := make([]string, len(e.Bytes))
	for i, v := range e.Bytes {
		names[i] = name(v)
	}
	return names
}

type vendorNamer struct {
	ops hal.VendorTagOps
}

func (v vendorNamer) tagName(tag metadata.Tag) string {
	if v.ops != nil && tag.IsVendor() {
		section, ok1 := v.ops.SectionName(tag)
		name, ok2 := v.ops.TagName(tag)
		if ok1 && ok2 {
			return section + "." + name
		}
	}
	return tag.String()
}

func (e *env) vendorNamer() vendorNamer {
	ops, _ := e.adapter.VendorTagOps()
	return vendorNamer{ops: ops}
}

func (e *env) writeStructured(format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(e.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, format)
	}
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "list", "[-format text|json|yaml]")
	format := fs.String("format", "text", "output format: text, json or yaml")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	n := e.adapter.NumberOfCameras()
	cameras := make([]CameraOutput, 0, n)
	for id := range n {
		info, err := e.adapter.CameraInfo(ctx, id)
		cameras = append(cameras, cameraOutput(id, info, err))
	}

	if *format != "text" {
		return e.writeStructured(*format, cameras)
	}

	fmt.Fprintf(e.stdout, "Module: %s (API %s, HAL %s) by %s\n",
		e.adapter.ModuleName(), e.adapter.ModuleAPIVersion(), e.adapter.HALAPIVersion(), e.adapter.ModuleAuthor())
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFACING\tORIENTATION\tVERSION\tCOST\tCONFLICTS\tSTATUS")
	for _, c := range cameras {
		status := "ok"
		if c.Error != "" {
			status = c.Error
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\t%s\n",
			c.ID, c.Facing, c.Orientation, c.DeviceVersion, c.ResourceCost, strings.Join(c.ConflictingDevices, ","), status)
	}
	return tw.Flush()
}

func runInfo(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "info", "-id N [-format text|json|yaml|cbor]")
	id := fs.Int("id", 0, "camera id")
	format := fs.String("format", "text", "output format: text, json, yaml or cbor")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	info, err := e.adapter.CameraInfo(ctx, *id)
	if err != nil {
		return fmt.Errorf("camera %d: %w", *id, err)
	}

	switch *format {
	case "cbor":
		data, err := metadata.Marshal(info.StaticCharacteristics)
		if err != nil {
			return err
		}
		_, err = e.stdout.Write(data)
		return err
	case "text":
	default:
		out := cameraOutput(*id, info, nil)
		out.Characteristics = entryOutputs(info.StaticCharacteristics, e.vendorNamer())
		return e.writeStructured(*format, out)
	}

	out := cameraOutput(*id, info, nil)
	fmt.Fprintf(e.stdout, "Camera %d: %s facing, orientation %d, device API %s, cost %d\n",
		out.ID, out.Facing, out.Orientation, out.DeviceVersion, out.ResourceCost)
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tTYPE\tVALUES")
	for _, entry := range entryOutputs(info.StaticCharacteristics, e.vendorNamer()) {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", entry.Tag, entry.Type, entry.Values)
	}
	return tw.Flush()
}

// sessionDevice is implemented by devices that carry a session id.
type sessionDevice interface {
	Session() string
}

func runOpen(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "open", "-id N [-legacy VERSION] [-retries N]")
	id := fs.String("id", "0", "camera id")
	legacy := fs.String("legacy", "", "open at an older device API version, e.g. 1.0")
	retries := fs.Int("retries", e.cfg.Open.Retries, "retries while the camera is busy")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var legacyVersion hal.Version
	if *legacy != "" {
		v, err := hal.ParseVersion(*legacy)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		legacyVersion = v
	}

	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  *retries + 1,
		InitialDelay: e.cfg.Open.RetryDelay,
		Jitter:       true,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			fmt.Fprintf(e.stderr, "camera %s: attempt %d: %v, retrying\n", *id, attempt, err)
		},
	})

	var dev hal.Device
	err := retry.Execute(ctx, func(ctx context.Context) error {
		var err error
		if legacyVersion != 0 {
			dev, err = e.adapter.OpenLegacy(ctx, *id, legacyVersion)
		} else {
			dev, err = e.adapter.Open(ctx, *id)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("open camera %s: %w", *id, err)
	}

	session := "-"
	if s, ok := dev.(sessionDevice); ok {
		session = s.Session()
	}
	fmt.Fprintf(e.stdout, "opened camera %s at device API %s (session %s)\n", dev.ID(), dev.Version(), session)
	return dev.Close()
}

func runTorch(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "torch", "-id N on|off")
	id := fs.Int("id", 0, "camera id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	var enabled bool
	switch fs.Arg(0) {
	case "on":
		enabled = true
	case "off":
	default:
		fs.Usage()
		return errUsage
	}

	target := strconv.Itoa(*id)
	if err := e.adapter.SetTorchMode(ctx, target, enabled); err != nil {
		return fmt.Errorf("torch camera %s: %w", target, err)
	}
	fmt.Fprintf(e.stdout, "camera %s torch %s\n", target, fs.Arg(0))
	return nil
}
