package view

import (
	"encoding/binary"
	"sort"
)

func bytesAt[O int32 | int64](offsets []O, data []byte, i int) []byte {
	return data[offsets[i]:offsets[i+1]]
}

// Value returns element i; validity is not consulted.
func (v Utf8) Value(i int) string { return string(bytesAt(v.Offsets, v.Data, i)) }

// Value returns element i; validity is not consulted.
func (v LargeUtf8) Value(i int) string { return string(bytesAt(v.Offsets, v.Data, i)) }

// Value returns element i; validity is not consulted.
func (v Binary) Value(i int) []byte { return bytesAt(v.Offsets, v.Data, i) }

// Value returns element i; validity is not consulted.
func (v LargeBinary) Value(i int) []byte { return bytesAt(v.Offsets, v.Data, i) }

// Value returns element i; validity is not consulted.
func (v FixedSizeBinary) Value(i int) []byte {
	n := int(v.N)
	return v.Data[i*n : (i+1)*n]
}

// InlineLimit is the longest value a 16 byte view stores inline.
const InlineLimit = 12

// ViewSize returns the length of the value a 16 byte view describes.
func ViewSize(view [16]byte) int {
	return int(binary.LittleEndian.Uint32(view[0:4]))
}

// ViewRef returns the buffer index and byte offset of a view longer than
// InlineLimit.
func ViewRef(view [16]byte) (buffer, offset int) {
	return int(binary.LittleEndian.Uint32(view[8:12])), int(binary.LittleEndian.Uint32(view[12:16]))
}

// ResolveView returns the bytes a 16 byte view refers to.
func ResolveView(view [16]byte, buffers [][]byte) []byte {
	n := ViewSize(view)
	if n <= InlineLimit {
		out := make([]byte, n)
		copy(out, view[4:4+n])
		return out
	}
	buf, off := ViewRef(view)
	return buffers[buf][off : off+n]
}

// Value returns element i; validity is not consulted.
func (v Utf8View) Value(i int) string { return string(ResolveView(v.Views[i], v.Buffers)) }

// Value returns element i; validity is not consulted.
func (v BinaryView) Value(i int) []byte { return ResolveView(v.Views[i], v.Buffers) }

// IntAt reads element i of an integer view as int64. It reports false for
// non-integer views.
func IntAt(v View, i int) (int64, bool) {
	switch v := v.(type) {
	case Int8:
		return int64(v.Values[i]), true
	case Int16:
		return int64(v.Values[i]), true
	case Int32:
		return int64(v.Values[i]), true
	case Int64:
		return v.Values[i], true
	case UInt8:
		return int64(v.Values[i]), true
	case UInt16:
		return int64(v.Values[i]), true
	case UInt32:
		return int64(v.Values[i]), true
	case UInt64:
		return int64(v.Values[i]), true
	}
	return 0, false
}

// ValidityOf returns the validity of v, or nil for variants without one.
func ValidityOf(v View) *BitsWithOffset {
	switch v := v.(type) {
	case Boolean:
		return v.Validity
	case Int8:
		return v.Validity
	case Int16:
		return v.Validity
	case Int32:
		return v.Validity
	case Int64:
		return v.Validity
	case UInt8:
		return v.Validity
	case UInt16:
		return v.Validity
	case UInt32:
		return v.Validity
	case UInt64:
		return v.Validity
	case Float16:
		return v.Validity
	case Float32:
		return v.Validity
	case Float64:
		return v.Validity
	case Date32:
		return v.Validity
	case Date64:
		return v.Validity
	case YearMonthInterval:
		return v.Validity
	case DayTimeInterval:
		return v.Validity
	case MonthDayNanoInterval:
		return v.Validity
	case Time32:
		return v.Validity
	case Time64:
		return v.Validity
	case Duration:
		return v.Validity
	case Timestamp:
		return v.Validity
	case Utf8:
		return v.Validity
	case LargeUtf8:
		return v.Validity
	case Binary:
		return v.Validity
	case LargeBinary:
		return v.Validity
	case Utf8View:
		return v.Validity
	case BinaryView:
		return v.Validity
	case FixedSizeBinary:
		return v.Validity
	case Decimal128:
		return v.Validity
	case Struct:
		return v.Validity
	case List:
		return v.Validity
	case LargeList:
		return v.Validity
	case FixedSizeList:
		return v.Validity
	case Map:
		return v.Validity
	}
	return nil
}

// RunIndex returns the index k of the run covering logical position p: the
// smallest k with runEnds[k] > p. It reports false if p is past the last
// run or runEnds is not an integer view.
func RunIndex(runEnds View, p int) (int, bool) {
	n := runEnds.Len()
	if _, ok := IntAt(runEnds, 0); n > 0 && !ok {
		return 0, false
	}
	k := sort.Search(n, func(i int) bool {
		end, _ := IntAt(runEnds, i)
		return end > int64(p)
	})
	if k == n {
		return 0, false
	}
	return k, true
}

// UnionChild resolves element i of a union to the index of its field in
// Fields and the row within that field's view.
func (v Union) UnionChild(i int) (field int, row int, ok bool) {
	tid := v.Types[i]
	for idx, f := range v.Fields {
		if f.TypeID == tid {
			if v.Offsets != nil {
				return idx, int(v.Offsets[i]), true
			}
			return idx, i, true
		}
	}
	return 0, 0, false
}
