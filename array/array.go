// Package array is the owned columnar array model.
//
// Each variant owns its Go slices exclusively. Arrays are immutable once
// built: converting one to the arrow runtime hands its slices over, so the
// array must not be reused afterwards. A nil Validity means every element is
// valid; otherwise bit i of Validity is set when element i is valid and the
// bitmap holds exactly ceil(len/8) bytes.
package array

import (
	"github.com/x448/float16"

	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/types"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// Array is one of the array variants declared in this package.
type Array interface {
	DataType() datatypes.DataType
	// AsView borrows the array's slices; the view starts at offset 0.
	AsView() view.View
	Len() int
	isArray()
}

// Primitive is the payload of fixed width arrays. Invalid slots hold a
// placeholder, usually zero.
type Primitive[T any] struct {
	Validity []byte
	Values   []T
}

// TimeOf is the payload of Time32, Time64 and Duration arrays.
type TimeOf[T int32 | int64] struct {
	Unit     datatypes.TimeUnit
	Validity []byte
	Values   []T
}

// Bytes is the payload of offset based byte arrays. Offsets has len+1
// entries, starts at 0 and never decreases; element i is
// Data[Offsets[i]:Offsets[i+1]].
type Bytes[O int32 | int64] struct {
	Validity []byte
	Offsets  []O
	Data     []byte
}

// BytesViews is the payload of Utf8View and BinaryView arrays.
type BytesViews struct {
	Validity []byte
	Views    [][16]byte
	Buffers  [][]byte
}

// ListOf is the payload of List and LargeList. Element i is the range
// Elements[Offsets[i]:Offsets[i+1]].
type ListOf[O int32 | int64] struct {
	Validity []byte
	Offsets  []O
	Meta     datatypes.FieldMeta
	Elements Array
}

type (
	Null struct{ Length int }

	// Boolean stores its values bit-packed, so the length is explicit.
	Boolean struct {
		Length   int
		Validity []byte
		Values   []byte
	}

	Int8                 Primitive[int8]
	Int16                Primitive[int16]
	Int32                Primitive[int32]
	Int64                Primitive[int64]
	UInt8                Primitive[uint8]
	UInt16               Primitive[uint16]
	UInt32               Primitive[uint32]
	UInt64               Primitive[uint64]
	Float16              Primitive[float16.Float16]
	Float32              Primitive[float32]
	Float64              Primitive[float64]
	Date32               Primitive[int32]
	Date64               Primitive[int64]
	YearMonthInterval    Primitive[int32]
	DayTimeInterval      Primitive[types.DayTimeInterval]
	MonthDayNanoInterval Primitive[types.MonthDayNanoInterval]

	Time32   TimeOf[int32]
	Time64   TimeOf[int64]
	Duration TimeOf[int64]

	Timestamp struct {
		Unit     datatypes.TimeUnit
		Timezone string
		Validity []byte
		Values   []int64
	}

	Utf8        Bytes[int32]
	LargeUtf8   Bytes[int64]
	Binary      Bytes[int32]
	LargeBinary Bytes[int64]
	Utf8View    BytesViews
	BinaryView  BytesViews

	// FixedSizeBinary holds len*N bytes.
	FixedSizeBinary struct {
		N        int32
		Validity []byte
		Data     []byte
	}

	// Decimal128 element i has the logical value Values[i] * 10^-Scale.
	Decimal128 struct {
		Precision uint8
		Scale     int8
		Validity  []byte
		Values    []types.Int128
	}

	// Struct children all have Length elements.
	Struct struct {
		Length   int
		Validity []byte
		Fields   []StructField
	}

	List      ListOf[int32]
	LargeList ListOf[int64]

	// FixedSizeList holds Length*N child elements.
	FixedSizeList struct {
		Length   int
		N        int32
		Validity []byte
		Meta     datatypes.FieldMeta
		Elements Array
	}

	// Dictionary element i is Values[Keys[i]]. Keys is one of the eight
	// integer variants and carries the validity.
	Dictionary struct {
		Keys   Array
		Values Array
		Sorted bool
	}

	// RunEndEncoded element p is Values[k] for the smallest k with
	// RunEnds[k] > p.
	RunEndEncoded struct {
		Meta    datatypes.RunEndEncodedMeta
		RunEnds Array
		Values  Array
	}

	// Map element i is the entries Keys[Offsets[i]:Offsets[i+1]] paired
	// with the same range of Values.
	Map struct {
		Validity []byte
		Offsets  []int32
		Meta     datatypes.MapMeta
		Keys     Array
		Values   Array
	}

	// Union is dense when Offsets is non-nil and sparse otherwise. Element
	// i lives in the field whose TypeID is Types[i], at row Offsets[i] for
	// dense unions and at row i for sparse ones.
	Union struct {
		Types   []int8
		Offsets []int32
		Fields  []UnionField
	}
)

// StructField is one child of a Struct.
type StructField struct {
	Meta  datatypes.FieldMeta
	Array Array
}

// UnionField is one child of a Union.
type UnionField struct {
	TypeID int8
	Meta   datatypes.FieldMeta
	Array  Array
}
