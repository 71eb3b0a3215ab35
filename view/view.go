// Package view is the borrowed, zero-copy counterpart of package array.
//
// Every View variant mirrors an array variant, but its slices alias memory
// owned elsewhere: an array.Array or an arrow runtime array. A View must not
// be used after its source has been released, and must never be written to.
package view

import (
	"github.com/x448/float16"

	"github.com/VanDung-dev/HieraChain-Columnar/bits"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/types"
)

// BitsWithOffset is a bit vector whose first logical bit is bit Offset of
// Data. Slices of arrow arrays start at a non-zero bit offset.
type BitsWithOffset struct {
	Offset int
	Data   []byte
}

// Get reads logical bit i.
func (b BitsWithOffset) Get(i int) bool {
	return bits.Get(b.Data, b.Offset+i)
}

// IsValid reports whether element i is valid. A nil validity means every
// element is valid.
func IsValid(validity *BitsWithOffset, i int) bool {
	return validity == nil || validity.Get(i)
}

func shift(b *BitsWithOffset, n int) *BitsWithOffset {
	if b == nil {
		return nil
	}
	return &BitsWithOffset{Offset: b.Offset + n, Data: b.Data}
}

// View is one of the view variants declared in this package.
type View interface {
	DataType() datatypes.DataType
	Len() int
	isView()
}

// Primitive is the payload of fixed width views.
type Primitive[T any] struct {
	Validity *BitsWithOffset
	Values   []T
}

// TimeOf is the payload of Time32, Time64 and Duration views.
type TimeOf[T int32 | int64] struct {
	Unit     datatypes.TimeUnit
	Validity *BitsWithOffset
	Values   []T
}

// Bytes is the payload of offset based byte views. Element i is
// Data[Offsets[i]:Offsets[i+1]].
type Bytes[O int32 | int64] struct {
	Validity *BitsWithOffset
	Offsets  []O
	Data     []byte
}

// BytesViews is the payload of Utf8View and BinaryView. Each 16 byte view
// either inlines up to 12 bytes or points into Buffers.
type BytesViews struct {
	Validity *BitsWithOffset
	Views    [][16]byte
	Buffers  [][]byte
}

// ListOf is the payload of List and LargeList.
type ListOf[O int32 | int64] struct {
	Validity *BitsWithOffset
	Offsets  []O
	Meta     datatypes.FieldMeta
	Elements View
}

type (
	Null struct{ Length int }

	Boolean struct {
		Length   int
		Validity *BitsWithOffset
		Values   BitsWithOffset
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
		Validity *BitsWithOffset
		Values   []int64
	}

	Utf8        Bytes[int32]
	LargeUtf8   Bytes[int64]
	Binary      Bytes[int32]
	LargeBinary Bytes[int64]
	Utf8View    BytesViews
	BinaryView  BytesViews

	FixedSizeBinary struct {
		N        int32
		Validity *BitsWithOffset
		Data     []byte
	}

	Decimal128 struct {
		Precision uint8
		Scale     int8
		Validity  *BitsWithOffset
		Values    []types.Int128
	}

	Struct struct {
		Length   int
		Validity *BitsWithOffset
		Fields   []StructField
	}

	List      ListOf[int32]
	LargeList ListOf[int64]

	FixedSizeList struct {
		Length   int
		N        int32
		Validity *BitsWithOffset
		Meta     datatypes.FieldMeta
		Elements View
	}

	Dictionary struct {
		Keys   View
		Values View
		Sorted bool
	}

	RunEndEncoded struct {
		Meta    datatypes.RunEndEncodedMeta
		RunEnds View
		Values  View
	}

	Map struct {
		Validity *BitsWithOffset
		Offsets  []int32
		Meta     datatypes.MapMeta
		Keys     View
		Values   View
	}

	// Union is dense when Offsets is non-nil and sparse otherwise.
	Union struct {
		Types   []int8
		Offsets []int32
		Fields  []UnionField
	}
)

// StructField is one child of a Struct view.
type StructField struct {
	Meta datatypes.FieldMeta
	View View
}

// UnionField is one child of a Union view.
type UnionField struct {
	TypeID int8
	Meta   datatypes.FieldMeta
	View   View
}
