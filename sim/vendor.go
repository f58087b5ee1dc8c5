package sim

import (
	"fmt"

	"github.com/jonwraymond/camhal/hal"
	"github.com/jonwraymond/camhal/metadata"
)

// VendorTags is the vendor tag table of a simulated module. Each distinct
// section gets its own vendor section number, in order of first
// appearance; tags within a section are numbered in declaration order.
//
// A nil *VendorTags is an empty table.
type VendorTags struct {
	tags    []metadata.Tag
	entries map[metadata.Tag]VendorTag
	types   map[metadata.Tag]metadata.Type
	byName  map[string]metadata.Tag
}

var _ hal.VendorTagOps = (*VendorTags)(nil)

func (d Descriptor) vendorTable() (*VendorTags, error) {
	if len(d.VendorTags) == 0 {
		return nil, nil
	}

	v := &VendorTags{
		entries: make(map[metadata.Tag]VendorTag, len(d.VendorTags)),
		types:   make(map[metadata.Tag]metadata.Type, len(d.VendorTags)),
		byName:  make(map[string]metadata.Tag, len(d.VendorTags)),
	}
	sections := make(map[string]metadata.Section)
	next := make(map[metadata.Section]metadata.Tag)

	for _, vt := range d.VendorTags {
		if vt.Section == "" || vt.Name == "" {
			return nil, fmt.Errorf("%w: vendor tag needs a section and a name", ErrInvalidDescriptor)
		}
		typ, err := metadata.ParseType(vt.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: vendor tag %s.%s: %v", ErrInvalidDescriptor, vt.Section, vt.Name, err)
		}
		full := vt.Section + "." + vt.Name
		if _, dup := v.byName[full]; dup {
			return nil, fmt.Errorf("%w: duplicate vendor tag %s", ErrInvalidDescriptor, full)
		}

		section, ok := sections[vt.Section]
		if !ok {
			section = metadata.SectionVendor + metadata.Section(len(sections))
			sections[vt.Section] = section
			next[section] = section.Start()
		}
		tag := next[section]
		next[section]++

		v.tags = append(v.tags, tag)
		v.entries[tag] = vt
		v.types[tag] = typ
		v.byName[full] = tag
	}
	return v, nil
}

func (v *VendorTags) lookup(name string) (metadata.Tag, bool) {
	if v == nil {
		return 0, false
	}
	tag, ok := v.byName[name]
	return tag, ok
}

// TagCount returns the number of vendor tags.
func (v *VendorTags) TagCount() int {
	if v == nil {
		return 0
	}
	return len(v.tags)
}

// AllTags returns every vendor tag in declaration order.
func (v *VendorTags) AllTags() []metadata.Tag {
	if v == nil {
		return nil
	}
	return append([]metadata.Tag(nil), v.tags...)
}

// SectionName returns the section a vendor tag was declared in.
func (v *VendorTags) SectionName(tag metadata.Tag) (string, bool) {
	if v == nil {
		return "", false
	}
	e, ok := v.entries[tag]
	return e.Section, ok
}

// TagName returns the name of a vendor tag within its section.
func (v *VendorTags) TagName(tag metadata.Tag) (string, bool) {
	if v == nil {
		return "", false
	}
	e, ok := v.entries[tag]
	return e.Name, ok
}

// TagType returns the declared type of a vendor tag.
func (v *VendorTags) TagType(tag metadata.Tag) (metadata.Type, bool) {
	if v == nil {
		return 0, false
	}
	t, ok := v.types[tag]
	return t, ok
}
