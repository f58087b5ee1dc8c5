package metadata

import (
	"cmp"
	"fmt"
	"slices"
)

// Metadata is an ordered set of typed entries keyed by Tag.
//
// Contract:
//   - Concurrency: an unlocked container is not safe for concurrent use.
//     A locked container is immutable and safe for concurrent readers.
//   - Ownership: slices returned by Find and Entries alias container storage
//     and must not be modified.
type Metadata struct {
	entries []Entry
	locked  bool
}

// New creates an empty container.
func New() *Metadata {
	return &Metadata{}
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Find returns the entry for tag.
func (m *Metadata) Find(tag Tag) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	i, ok := m.index(tag)
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Exists reports whether tag has an entry.
func (m *Metadata) Exists(tag Tag) bool {
	_, ok := m.Find(tag)
	return ok
}

// Tags returns the tags present, in ascending order.
func (m *Metadata) Tags() []Tag {
	if m == nil {
		return nil
	}
	tags := make([]Tag, len(m.entries))
	for i, e := range m.entries {
		tags[i] = e.Tag
	}
	return tags
}

// Entries returns the entries in tag order.
func (m *Metadata) Entries() []Entry {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// UpdateBytes sets tag to the given byte values.
func (m *Metadata) UpdateBytes(tag Tag, values ...uint8) error {
	return m.update(Entry{Tag: tag, Type: TypeByte, Bytes: slices.Clone(values)})
}

// UpdateInt32 sets tag to the given int32 values.
func (m *Metadata) UpdateInt32(tag Tag, values ...int32) error {
	return m.update(Entry{Tag: tag, Type: TypeInt32, Int32s: slices.Clone(values)})
}

// UpdateFloat sets tag to the given float values.
func (m *Metadata) UpdateFloat(tag Tag, values ...float32) error {
	return m.update(Entry{Tag: tag, Type: TypeFloat, Floats: slices.Clone(values)})
}

// UpdateInt64 sets tag to the given int64 values.
func (m *Metadata) UpdateInt64(tag Tag, values ...int64) error {
	return m.update(Entry{Tag: tag, Type: TypeInt64, Int64s: slices.Clone(values)})
}

// UpdateDouble sets tag to the given double values.
func (m *Metadata) UpdateDouble(tag Tag, values ...float64) error {
	return m.update(Entry{Tag: tag, Type: TypeDouble, Doubles: slices.Clone(values)})
}

// UpdateRational sets tag to the given rational values.
func (m *Metadata) UpdateRational(tag Tag, values ...Rational) error {
	return m.update(Entry{Tag: tag, Type: TypeRational, Rationals: slices.Clone(values)})
}

// Update stores a copy of e, replacing any entry with the same tag.
func (m *Metadata) Update(e Entry) error {
	return m.update(e.clone())
}

// Erase removes tag. Erasing an absent tag is a no-op.
func (m *Metadata) Erase(tag Tag) error {
	if m.locked {
		return ErrLocked
	}
	if i, ok := m.index(tag); ok {
		m.entries = slices.Delete(m.entries, i, i+1)
	}
	return nil
}

// Clone returns an unlocked deep copy. Cloning nil yields an empty container.
func (m *Metadata) Clone() *Metadata {
	out := New()
	if m == nil {
		return out
	}
	out.entries = make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out.entries[i] = e.clone()
	}
	return out
}

// Lock freezes the container and returns it.
func (m *Metadata) Lock() *Metadata {
	m.locked = true
	return m
}

// IsLocked reports whether the container has been locked.
func (m *Metadata) IsLocked() bool {
	return m != nil && m.locked
}

// Equal reports whether both containers hold the same entries.
func (m *Metadata) Equal(other *Metadata) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if !entryEqual(m.entries[i], other.entries[i]) {
			return false
		}
	}
	return true
}

func (m *Metadata) update(e Entry) error {
	if m.locked {
		return ErrLocked
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidType, e.Type)
	}
	if want, ok := TypeOf(e.Tag); ok && want != e.Type {
		return fmt.Errorf("%w: %s is %s, got %s", ErrTypeMismatch, e.Tag, want, e.Type)
	}
	i, found := m.index(e.Tag)
	if found {
		m.entries[i] = e
		return nil
	}
	m.entries = slices.Insert(m.entries, i, e)
	return nil
}

func (m *Metadata) index(tag Tag) (int, bool) {
	return slices.BinarySearchFunc(m.entries, tag, func(e Entry, t Tag) int {
		return cmp.Compare(e.Tag, t)
	})
}

func entryEqual(a, b Entry) bool {
	if a.Tag != b.Tag || a.Type != b.Type {
		return false
	}
	return slices.Equal(a.Bytes, b.Bytes) &&
		slices.Equal(a.Int32s, b.Int32s) &&
		slices.Equal(a.Floats, b.Floats) &&
		slices.Equal(a.Int64s, b.Int64s) &&
		slices.Equal(a.Doubles, b.Doubles) &&
		slices.Equal(a.Rationals, b.Rationals)
}
