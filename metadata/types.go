package metadata

import "fmt"

// Type is the element type of an entry's value array.
type Type uint8

const (
	TypeByte Type = iota
	TypeInt32
	TypeFloat
	TypeInt64
	TypeDouble
	TypeRational
)

// String returns the type name.
func (t Type) String() string {
	names := []string{"byte", "int32", "float", "int64", "double", "rational"}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Valid reports whether t is a known element type.
func (t Type) Valid() bool {
	return t <= TypeRational
}

// ParseType parses a type name as returned by Type.String.
func ParseType(s string) (Type, error) {
	switch s {
	case "byte", "u8", "uint8":
		return TypeByte, nil
	case "int32", "i32":
		return TypeInt32, nil
	case "float", "float32":
		return TypeFloat, nil
	case "int64", "i64":
		return TypeInt64, nil
	case "double", "float64":
		return TypeDouble, nil
	case "rational":
		return TypeRational, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Rational is a signed fraction.
type Rational struct {
	Numerator   int32 `cbor:"1,keyasint" yaml:"numerator" toml:"numerator"`
	Denominator int32 `cbor:"2,keyasint" yaml:"denominator" toml:"denominator"`
}

// Float64 returns the fraction as a float. A zero denominator yields 0.
func (r Rational) Float64() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

// Entry is a single tag with its typed values. Only the slice matching Type
// is populated.
type Entry struct {
	Tag       Tag        `cbor:"1,keyasint"`
	Type      Type       `cbor:"2,keyasint"`
	Bytes     []uint8    `cbor:"3,keyasint,omitempty"`
	Int32s    []int32    `cbor:"4,keyasint,omitempty"`
	Floats    []float32  `cbor:"5,keyasint,omitempty"`
	Int64s    []int64    `cbor:"6,keyasint,omitempty"`
	Doubles   []float64  `cbor:"7,keyasint,omitempty"`
	Rationals []Rational `cbor:"8,keyasint,omitempty"`
}

// Count returns the number of values in the entry.
func (e Entry) Count() int {
	switch e.Type {
	case TypeByte:
		return len(e.Bytes)
	case TypeInt32:
		return len(e.Int32s)
	case TypeFloat:
		return len(e.Floats)
	case TypeInt64:
		return len(e.Int64s)
	case TypeDouble:
		return len(e.Doubles)
	case TypeRational:
		return len(e.Rationals)
	default:
		return 0
	}
}

// Values returns the populated value slice as an untyped value.
func (e Entry) Values() any {
	switch e.Type {
	case TypeByte:
		return e.Bytes
	case TypeInt32:
		return e.Int32s
	case TypeFloat:
		return e.Floats
	case TypeInt64:
		return e.Int64s
	case TypeDouble:
		return e.Doubles
	case TypeRational:
		return e.Rationals
	default:
		return nil
	}
}

func (e Entry) clone() Entry {
	out := Entry{Tag: e.Tag, Type: e.Type}
	switch e.Type {
	case TypeByte:
		out.Bytes = append([]uint8{}, e.Bytes...)
	case TypeInt32:
		out.Int32s = append([]int32{}, e.Int32s...)
	case TypeFloat:
		out.Floats = append([]float32{}, e.Floats...)
	case TypeInt64:
		out.Int64s = append([]int64{}, e.Int64s...)
	case TypeDouble:
		out.Doubles = append([]float64{}, e.Doubles...)
	case TypeRational:
		out.Rationals = append([]Rational{}, e.Rationals...)
	}
	return out
}
