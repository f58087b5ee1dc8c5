package metadata

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create metadata CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create metadata CBOR decoder mode: %v", err))
	}
}

// wireMetadata is the encoded form of a container.
type wireMetadata struct {
	Entries []Entry `cbor:"1,keyasint"`
}

// Marshal encodes m as deterministic CBOR. The lock state is not encoded.
func Marshal(m *Metadata) ([]byte, error) {
	var entries []Entry
	if m != nil {
		entries = m.entries
	}
	return encMode.Marshal(wireMetadata{Entries: entries})
}

// Unmarshal decodes CBOR produced by Marshal into a new unlocked container.
// Entries are validated against the registry.
func Unmarshal(data []byte) (*Metadata, error) {
	var w wireMetadata
	if err := decMode.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}
	m := New()
	for _, e := range w.Entries {
		if err := m.update(e); err != nil {
			return nil, err
		}
	}
	return m, nil
}
