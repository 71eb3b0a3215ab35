// Package datatypes defines the closed set of column types and the field
// metadata that describes a column or a nested column.
package datatypes

import (
	"fmt"
	"strings"
)

// TypeID identifies the variant of a DataType.
type TypeID int

const (
	NULL TypeID = iota
	BOOL
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT16
	FLOAT32
	FLOAT64
	UTF8
	LARGE_UTF8
	UTF8_VIEW
	BINARY
	LARGE_BINARY
	BINARY_VIEW
	DATE32
	DATE64
	FIXED_SIZE_BINARY
	TIMESTAMP
	TIME32
	TIME64
	DURATION
	INTERVAL
	DECIMAL128
	STRUCT
	LIST
	LARGE_LIST
	FIXED_SIZE_LIST
	MAP
	DICTIONARY
	RUN_END_ENCODED
	UNION
)

var typeIDNames = [...]string{
	NULL:              "Null",
	BOOL:              "Boolean",
	INT8:              "Int8",
	INT16:             "Int16",
	INT32:             "Int32",
	INT64:             "Int64",
	UINT8:             "UInt8",
	UINT16:            "UInt16",
	UINT32:            "UInt32",
	UINT64:            "UInt64",
	FLOAT16:           "Float16",
	FLOAT32:           "Float32",
	FLOAT64:           "Float64",
	UTF8:              "Utf8",
	LARGE_UTF8:        "LargeUtf8",
	UTF8_VIEW:         "Utf8View",
	BINARY:            "Binary",
	LARGE_BINARY:      "LargeBinary",
	BINARY_VIEW:       "BinaryView",
	DATE32:            "Date32",
	DATE64:            "Date64",
	FIXED_SIZE_BINARY: "FixedSizeBinary",
	TIMESTAMP:         "Timestamp",
	TIME32:            "Time32",
	TIME64:            "Time64",
	DURATION:          "Duration",
	INTERVAL:          "Interval",
	DECIMAL128:        "Decimal128",
	STRUCT:            "Struct",
	LIST:              "List",
	LARGE_LIST:        "LargeList",
	FIXED_SIZE_LIST:   "FixedSizeList",
	MAP:               "Map",
	DICTIONARY:        "Dictionary",
	RUN_END_ENCODED:   "RunEndEncoded",
	UNION:             "Union",
}

func (id TypeID) String() string {
	if id < 0 || int(id) >= len(typeIDNames) {
		return fmt.Sprintf("TypeID(%d)", int(id))
	}
	return typeIDNames[id]
}

// DataType is one of the column types below. The set of implementations is
// closed: Basic, FixedSizeBinary, Timestamp, Time32, Time64, Duration,
// Interval, Decimal128, Struct, List, LargeList, FixedSizeList, Map,
// Dictionary, RunEndEncoded and Union.
type DataType interface {
	ID() TypeID
	String() string
	isDataType()
}

// Basic is a data type without parameters. Only the constants below are
// valid Basic values.
type Basic TypeID

const (
	Null        = Basic(NULL)
	Boolean     = Basic(BOOL)
	Int8        = Basic(INT8)
	Int16       = Basic(INT16)
	Int32       = Basic(INT32)
	Int64       = Basic(INT64)
	UInt8       = Basic(UINT8)
	UInt16      = Basic(UINT16)
	UInt32      = Basic(UINT32)
	UInt64      = Basic(UINT64)
	Float16     = Basic(FLOAT16)
	Float32     = Basic(FLOAT32)
	Float64     = Basic(FLOAT64)
	Utf8        = Basic(UTF8)
	LargeUtf8   = Basic(LARGE_UTF8)
	Utf8View    = Basic(UTF8_VIEW)
	Binary      = Basic(BINARY)
	LargeBinary = Basic(LARGE_BINARY)
	BinaryView  = Basic(BINARY_VIEW)
	Date32      = Basic(DATE32)
	Date64      = Basic(DATE64)
)

func (b Basic) ID() TypeID     { return TypeID(b) }
func (b Basic) String() string { return TypeID(b).String() }
func (Basic) isDataType()      {}

// Valid reports whether b is one of the parameterless type ids.
func (b Basic) Valid() bool { return b >= Null && b <= Date64 }

// FixedSizeBinary holds byte strings of exactly ByteWidth bytes.
type FixedSizeBinary struct {
	ByteWidth int32
}

// Timestamp is an int64 count of Unit since the epoch. An empty Timezone
// means the timestamp has no zone.
type Timestamp struct {
	Unit     TimeUnit
	Timezone string
}

// Time32 is an int32 time of day; Unit is Second or Millisecond.
type Time32 struct{ Unit TimeUnit }

// Time64 is an int64 time of day; Unit is Microsecond or Nanosecond.
type Time64 struct{ Unit TimeUnit }

// Duration is an int64 elapsed time.
type Duration struct{ Unit TimeUnit }

// Interval is a calendar interval whose layout depends on Unit.
type Interval struct{ Unit IntervalUnit }

// Decimal128 is a fixed point number stored as a 128 bit integer.
type Decimal128 struct {
	Precision uint8
	Scale     int8
}

// Struct has one child per field.
type Struct struct {
	Fields []Field
}

// List is a variable-length list with int32 offsets.
type List struct{ Elem Field }

// LargeList is a variable-length list with int64 offsets.
type LargeList struct{ Elem Field }

// FixedSizeList holds exactly N elements per slot.
type FixedSizeList struct {
	Elem Field
	N    int32
}

// Map is a list of key/value entries. Entries is a Struct field with the
// key field first and the value field second.
type Map struct {
	Entries Field
	Sorted  bool
}

// Dictionary stores integer keys into a deduplicated values array.
type Dictionary struct {
	Key    DataType
	Value  DataType
	Sorted bool
}

// RunEndEncoded stores runs of equal values with their exclusive end
// positions.
type RunEndEncoded struct {
	RunEnds Field
	Values  Field
}

// UnionVariant is one alternative of a union.
type UnionVariant struct {
	TypeID int8
	Field  Field
}

// Union is a tagged union of its variants.
type Union struct {
	Variants []UnionVariant
	Mode     UnionMode
}

func (FixedSizeBinary) ID() TypeID { return FIXED_SIZE_BINARY }
func (Timestamp) ID() TypeID       { return TIMESTAMP }
func (Time32) ID() TypeID          { return TIME32 }
func (Time64) ID() TypeID          { return TIME64 }
func (Duration) ID() TypeID        { return DURATION }
func (Interval) ID() TypeID        { return INTERVAL }
func (Decimal128) ID() TypeID      { return DECIMAL128 }
func (Struct) ID() TypeID          { return STRUCT }
func (List) ID() TypeID            { return LIST }
func (LargeList) ID() TypeID       { return LARGE_LIST }
func (FixedSizeList) ID() TypeID   { return FIXED_SIZE_LIST }
func (Map) ID() TypeID             { return MAP }
func (Dictionary) ID() TypeID      { return DICTIONARY }
func (RunEndEncoded) ID() TypeID   { return RUN_END_ENCODED }
func (Union) ID() TypeID           { return UNION }

func (FixedSizeBinary) isDataType() {}
func (Timestamp) isDataType()       {}
func (Time32) isDataType()          {}
func (Time64) isDataType()          {}
func (Duration) isDataType()        {}
func (Interval) isDataType()        {}
func (Decimal128) isDataType()      {}
func (Struct) isDataType()          {}
func (List) isDataType()            {}
func (LargeList) isDataType()       {}
func (FixedSizeList) isDataType()   {}
func (Map) isDataType()             {}
func (Dictionary) isDataType()      {}
func (RunEndEncoded) isDataType()   {}
func (Union) isDataType()           {}

func (t FixedSizeBinary) String() string { return fmt.Sprintf("FixedSizeBinary(%d)", t.ByteWidth) }

func (t Timestamp) String() string {
	if t.Timezone == "" {
		return fmt.Sprintf("Timestamp(%s)", t.Unit)
	}
	return fmt.Sprintf("Timestamp(%s, %s)", t.Unit, t.Timezone)
}

func (t Time32) String() string     { return fmt.Sprintf("Time32(%s)", t.Unit) }
func (t Time64) String() string     { return fmt.Sprintf("Time64(%s)", t.Unit) }
func (t Duration) String() string   { return fmt.Sprintf("Duration(%s)", t.Unit) }
func (t Interval) String() string   { return fmt.Sprintf("Interval(%s)", t.Unit) }
func (t Decimal128) String() string { return fmt.Sprintf("Decimal128(%d, %d)", t.Precision, t.Scale) }

func (t Struct) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "Struct(" + strings.Join(parts, ", ") + ")"
}

func (t List) String() string      { return fmt.Sprintf("List(%s)", t.Elem) }
func (t LargeList) String() string { return fmt.Sprintf("LargeList(%s)", t.Elem) }

func (t FixedSizeList) String() string {
	return fmt.Sprintf("FixedSizeList(%s, %d)", t.Elem, t.N)
}

func (t Map) String() string { return fmt.Sprintf("Map(%s, sorted=%t)", t.Entries, t.Sorted) }

func (t Dictionary) String() string {
	return fmt.Sprintf("Dictionary(%s, %s, sorted=%t)", t.Key, t.Value, t.Sorted)
}

func (t RunEndEncoded) String() string {
	return fmt.Sprintf("RunEndEncoded(%s, %s)", t.RunEnds, t.Values)
}

func (t Union) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = fmt.Sprintf("%d: %s", v.TypeID, v.Field)
	}
	return fmt.Sprintf("Union([%s], %s)", strings.Join(parts, ", "), t.Mode)
}

// IsInteger reports whether dt is one of the eight integer types.
func IsInteger(dt DataType) bool {
	switch dt {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// Equal reports whether a and b are structurally equal. Nil metadata
// equals empty metadata.
func Equal(a, b DataType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ID() != b.ID() {
		return false
	}
	switch a := a.(type) {
	case Basic, FixedSizeBinary, Timestamp, Time32, Time64, Duration, Interval, Decimal128:
		return a == b
	case Struct:
		b := b.(Struct)
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !a.Fields[i].Equal(b.Fields[i]) {
				return false
			}
		}
		return true
	case List:
		return a.Elem.Equal(b.(List).Elem)
	case LargeList:
		return a.Elem.Equal(b.(LargeList).Elem)
	case FixedSizeList:
		b := b.(FixedSizeList)
		return a.N == b.N && a.Elem.Equal(b.Elem)
	case Map:
		b := b.(Map)
		return a.Sorted == b.Sorted && a.Entries.Equal(b.Entries)
	case Dictionary:
		b := b.(Dictionary)
		return a.Sorted == b.Sorted && Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case RunEndEncoded:
		b := b.(RunEndEncoded)
		return a.RunEnds.Equal(b.RunEnds) && a.Values.Equal(b.Values)
	case Union:
		b := b.(Union)
		if a.Mode != b.Mode || len(a.Variants) != len(b.Variants) {
			return false
		}
		for i := range a.Variants {
			if a.Variants[i].TypeID != b.Variants[i].TypeID || !a.Variants[i].Field.Equal(b.Variants[i].Field) {
				return false
			}
		}
		return true
	}
	return false
}
