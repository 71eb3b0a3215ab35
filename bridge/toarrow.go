package bridge

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/bits"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/types"
)

// ToArrow converts a into a runtime array. The slices of a become the
// runtime buffers, so a must not be used afterwards. The caller releases
// the result. Arrays that fail carray.Validate are rejected before any
// buffer is handed over.
func ToArrow(a carray.Array) (arrow.Array, error) {
	return toArrow(nil, a)
}

// ToArrowData converts a into runtime array data. Ownership is as for
// ToArrow.
func ToArrowData(a carray.Array) (arrow.ArrayData, error) {
	if err := carray.Validate(a); err != nil {
		return nil, err
	}
	enc := encoder{}
	d, err := enc.data(a)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func toArrow(mem memory.Allocator, a carray.Array) (arrow.Array, error) {
	if err := carray.Validate(a); err != nil {
		return nil, err
	}
	enc := encoder{mem: mem}
	d, err := enc.data(a)
	if err != nil {
		return nil, err
	}
	defer d.Release()
	return makeArray(d)
}

type encoder struct {
	mem memory.Allocator
}

func (e encoder) buffer(b []byte) *memory.Buffer { return newBuffer(e.mem, b) }

// required wraps a buffer the layout always carries, even when empty.
func (e encoder) required(b []byte) *memory.Buffer {
	if b == nil {
		b = []byte{}
	}
	return newBuffer(e.mem, b)
}

// validity wraps the bitmap and counts the nulls it marks.
func (e encoder) validity(validity []byte, n int) (*memory.Buffer, int, error) {
	if validity == nil {
		return nil, 0, nil
	}
	if len(validity) < bits.BytesFor(n) {
		return nil, 0, errs.Unsupportedf("validity has %d bytes for %d elements", len(validity), n)
	}
	return e.buffer(validity), n - bits.CountSet(validity, 0, n), nil
}

func fixedWidth[T any](e encoder, dt arrow.DataType, validity []byte, values []T) (*array.Data, error) {
	return fixedBytes(e, dt, validity, len(values), bytesOf(values))
}

func fixedBytes(e encoder, dt arrow.DataType, validity []byte, n int, values []byte) (*array.Data, error) {
	vb, nulls, err := e.validity(validity, n)
	if err != nil {
		return nil, err
	}
	return newData(dt, n, []*memory.Buffer{vb, e.required(values)}, nil, nulls), nil
}

func offsetsOrZero[O int32 | int64](offsets []O) []O {
	if len(offsets) == 0 {
		return []O{0}
	}
	return offsets
}

func varBinary[O int32 | int64](e encoder, dt arrow.DataType, b carray.Bytes[O]) (*array.Data, error) {
	offsets := offsetsOrZero(b.Offsets)
	n := len(offsets) - 1
	vb, nulls, err := e.validity(b.Validity, n)
	if err != nil {
		return nil, err
	}
	bufs := []*memory.Buffer{vb, e.required(bytesOf(offsets)), e.required(b.Data)}
	return newData(dt, n, bufs, nil, nulls), nil
}

func binaryViews(e encoder, dt arrow.DataType, b carray.BytesViews) (*array.Data, error) {
	n := len(b.Views)
	vb, nulls, err := e.validity(b.Validity, n)
	if err != nil {
		return nil, err
	}
	bufs := []*memory.Buffer{vb, e.required(bytesOf(b.Views))}
	for _, buf := range b.Buffers {
		bufs = append(bufs, e.required(buf))
	}
	return newData(dt, n, bufs, nil, nulls), nil
}

func (e encoder) listData(dt func(arrow.Field) arrow.DataType, validity []byte, offsets []byte, n int, meta datatypes.FieldMeta, elems carray.Array) (*array.Data, error) {
	vb, nulls, err := e.validity(validity, n)
	if err != nil {
		return nil, err
	}
	child, err := e.data(elems)
	if err != nil {
		releaseBuffers([]*memory.Buffer{vb})
		return nil, err
	}
	field := arrowField(meta, child.DataType())
	return newData(dt(field), n, []*memory.Buffer{vb, e.required(offsets)}, []*array.Data{child}, nulls), nil
}

func encodeDayTime(values []types.DayTimeInterval) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[8*i:], uint32(v.Days))
		binary.LittleEndian.PutUint32(out[8*i+4:], uint32(v.Milliseconds))
	}
	return out
}

func encodeMonthDayNano(values []types.MonthDayNanoInterval) []byte {
	out := make([]byte, 16*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[16*i:], uint32(v.Months))
		binary.LittleEndian.PutUint32(out[16*i+4:], uint32(v.Days))
		binary.LittleEndian.PutUint64(out[16*i+8:], uint64(v.Nanoseconds))
	}
	return out
}

// data converts a recursively. The returned Data holds one reference owned
// by the caller.
func (e encoder) data(a carray.Array) (*array.Data, error) {
	if a == nil {
		return nil, errs.Unsupportedf("missing array")
	}

	switch a := a.(type) {
	case carray.Null:
		return newData(arrow.Null, a.Length, []*memory.Buffer{nil}, nil, a.Length), nil
	case carray.Boolean:
		if len(a.Values) < bits.BytesFor(a.Length) {
			return nil, errs.Unsupportedf("boolean values have %d bytes for %d elements", len(a.Values), a.Length)
		}
		vb, nulls, err := e.validity(a.Validity, a.Length)
		if err != nil {
			return nil, err
		}
		bufs := []*memory.Buffer{vb, e.required(a.Values)}
		return newData(arrow.FixedWidthTypes.Boolean, a.Length, bufs, nil, nulls), nil
	case carray.Int8:
		return fixedWidth(e, arrow.PrimitiveTypes.Int8, a.Validity, a.Values)
	case carray.Int16:
		return fixedWidth(e, arrow.PrimitiveTypes.Int16, a.Validity, a.Values)
	case carray.Int32:
		return fixedWidth(e, arrow.PrimitiveTypes.Int32, a.Validity, a.Values)
	case carray.Int64:
		return fixedWidth(e, arrow.PrimitiveTypes.Int64, a.Validity, a.Values)
	case carray.UInt8:
		return fixedWidth(e, arrow.PrimitiveTypes.Uint8, a.Validity, a.Values)
	case carray.UInt16:
		return fixedWidth(e, arrow.PrimitiveTypes.Uint16, a.Validity, a.Values)
	case carray.UInt32:
		return fixedWidth(e, arrow.PrimitiveTypes.Uint32, a.Validity, a.Values)
	case carray.UInt64:
		return fixedWidth(e, arrow.PrimitiveTypes.Uint64, a.Validity, a.Values)
	case carray.Float16:
		// x448 and arrow half floats share the IEEE 754 binary16 bit layout
		return fixedWidth(e, arrow.FixedWidthTypes.Float16, a.Validity, a.Values)
	case carray.Float32:
		return fixedWidth(e, arrow.PrimitiveTypes.Float32, a.Validity, a.Values)
	case carray.Float64:
		return fixedWidth(e, arrow.PrimitiveTypes.Float64, a.Validity, a.Values)
	case carray.Date32:
		return fixedWidth(e, arrow.PrimitiveTypes.Date32, a.Validity, a.Values)
	case carray.Date64:
		return fixedWidth(e, arrow.PrimitiveTypes.Date64, a.Validity, a.Values)
	case carray.YearMonthInterval:
		return fixedWidth(e, arrow.FixedWidthTypes.MonthInterval, a.Validity, a.Values)
	case carray.DayTimeInterval:
		return fixedBytes(e, arrow.FixedWidthTypes.DayTimeInterval, a.Validity, len(a.Values), encodeDayTime(a.Values))
	case carray.MonthDayNanoInterval:
		return fixedBytes(e, arrow.FixedWidthTypes.MonthDayNanoInterval, a.Validity, len(a.Values), encodeMonthDayNano(a.Values))
	case carray.Time32:
		if err := datatypes.Validate(datatypes.Time32{Unit: a.Unit}); err != nil {
			return nil, err
		}
		return fixedWidth(e, &arrow.Time32Type{Unit: timeUnitToArrow(a.Unit)}, a.Validity, a.Values)
	case carray.Time64:
		if err := datatypes.Validate(datatypes.Time64{Unit: a.Unit}); err != nil {
			return nil, err
		}
		return fixedWidth(e, &arrow.Time64Type{Unit: timeUnitToArrow(a.Unit)}, a.Validity, a.Values)
	case carray.Duration:
		if err := datatypes.Validate(datatypes.Duration{Unit: a.Unit}); err != nil {
			return nil, err
		}
		return fixedWidth(e, &arrow.DurationType{Unit: timeUnitToArrow(a.Unit)}, a.Validity, a.Values)
	case carray.Timestamp:
		if err := datatypes.Validate(datatypes.Timestamp{Unit: a.Unit}); err != nil {
			return nil, err
		}
		t := &arrow.TimestampType{Unit: timeUnitToArrow(a.Unit), TimeZone: a.Timezone}
		return fixedWidth(e, t, a.Validity, a.Values)
	case carray.Utf8:
		return varBinary(e, arrow.BinaryTypes.String, carray.Bytes[int32](a))
	case carray.LargeUtf8:
		return varBinary(e, arrow.BinaryTypes.LargeString, carray.Bytes[int64](a))
	case carray.Binary:
		return varBinary(e, arrow.BinaryTypes.Binary, carray.Bytes[int32](a))
	case carray.LargeBinary:
		return varBinary(e, arrow.BinaryTypes.LargeBinary, carray.Bytes[int64](a))
	case carray.Utf8View:
		return binaryViews(e, arrow.BinaryTypes.StringView, carray.BytesViews(a))
	case carray.BinaryView:
		return binaryViews(e, arrow.BinaryTypes.BinaryView, carray.BytesViews(a))
	case carray.FixedSizeBinary:
		if err := carray.CheckDivisible("fixed size binary data", len(a.Data), a.N); err != nil {
			return nil, err
		}
		n := a.Len()
		vb, nulls, err := e.validity(a.Validity, n)
		if err != nil {
			return nil, err
		}
		t := &arrow.FixedSizeBinaryType{ByteWidth: int(a.N)}
		return newData(t, n, []*memory.Buffer{vb, e.required(a.Data)}, nil, nulls), nil
	case carray.Decimal128:
		t, err := typeToArrow(datatypes.Decimal128{Precision: a.Precision, Scale: a.Scale})
		if err != nil {
			return nil, err
		}
		return fixedWidth(e, t, a.Validity, a.Values)
	case carray.Struct:
		return e.structData(a)
	case carray.List:
		offsets := offsetsOrZero(a.Offsets)
		return e.listData(func(f arrow.Field) arrow.DataType { return arrow.ListOfField(f) },
			a.Validity, bytesOf(offsets), len(offsets)-1, a.Meta, a.Elements)
	case carray.LargeList:
		offsets := offsetsOrZero(a.Offsets)
		return e.listData(func(f arrow.Field) arrow.DataType { return arrow.LargeListOfField(f) },
			a.Validity, bytesOf(offsets), len(offsets)-1, a.Meta, a.Elements)
	case carray.FixedSizeList:
		return e.fixedSizeListData(a)
	case carray.Dictionary:
		return e.dictionaryData(a)
	case carray.RunEndEncoded:
		return e.runEndEncodedData(a)
	case carray.Map:
		return e.mapData(a)
	case carray.Union:
		return e.unionData(a)
	}
	return nil, errs.Unsupportedf("cannot convert array of type %T", a)
}

func (e encoder) children(arrays []carray.Array) ([]*array.Data, error) {
	out := make([]*array.Data, 0, len(arrays))
	for _, a := range arrays {
		d, err := e.data(a)
		if err != nil {
			releaseData(out)
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Struct layout: [validity], one child per field.
func (e encoder) structData(a carray.Struct) (*array.Data, error) {
	arrays := make([]carray.Array, len(a.Fields))
	for i, f := range a.Fields {
		if f.Array != nil && f.Array.Len() != a.Length {
			return nil, errs.Unsupportedf("struct field %q has length %d, want %d", f.Meta.Name, f.Array.Len(), a.Length)
		}
		arrays[i] = f.Array
	}
	vb, nulls, err := e.validity(a.Validity, a.Length)
	if err != nil {
		return nil, err
	}
	children, err := e.children(arrays)
	if err != nil {
		releaseBuffers([]*memory.Buffer{vb})
		return nil, err
	}
	fields := make([]arrow.Field, len(children))
	for i, c := range children {
		fields[i] = arrowField(a.Fields[i].Meta, c.DataType())
	}
	return newData(arrow.StructOf(fields...), a.Length, []*memory.Buffer{vb}, children, nulls), nil
}

// FixedSizeList layout: [validity], one child of Length*N elements.
func (e encoder) fixedSizeListData(a carray.FixedSizeList) (*array.Data, error) {
	if a.Elements == nil {
		return nil, errs.Unsupportedf("fixed size list has no elements")
	}
	if err := carray.CheckDivisible("fixed size list elements", a.Elements.Len(), a.N); err != nil {
		return nil, err
	}
	if a.Elements.Len() != a.Length*int(a.N) {
		return nil, errs.Unsupportedf("fixed size list of length %d and size %d has %d elements", a.Length, a.N, a.Elements.Len())
	}
	vb, nulls, err := e.validity(a.Validity, a.Length)
	if err != nil {
		return nil, err
	}
	child, err := e.data(a.Elements)
	if err != nil {
		releaseBuffers([]*memory.Buffer{vb})
		return nil, err
	}
	t := arrow.FixedSizeListOfField(a.N, arrowField(a.Meta, child.DataType()))
	return newData(t, a.Length, []*memory.Buffer{vb}, []*array.Data{child}, nulls), nil
}

// Dictionary layout: the index buffers of the keys, with the values as the
// dictionary.
func (e encoder) dictionaryData(a carray.Dictionary) (*array.Data, error) {
	if a.Keys == nil || a.Values == nil {
		return nil, errs.Unsupportedf("dictionary is missing its keys or values")
	}
	if !datatypes.IsInteger(a.Keys.DataType()) {
		return nil, errs.Unsupportedf("dictionary keys must be one of the integer types, got %s", a.Keys.DataType())
	}
	keys, err := e.data(a.Keys)
	if err != nil {
		return nil, err
	}
	values, err := e.data(a.Values)
	if err != nil {
		keys.Release()
		return nil, err
	}
	t := &arrow.DictionaryType{IndexType: keys.DataType(), ValueType: values.DataType(), Ordered: a.Sorted}
	return newDictionaryData(t, keys, values), nil
}

// RunEndEncoded layout: no buffers of its own, children [run_ends, values].
// The logical length is the last run end.
func (e encoder) runEndEncodedData(a carray.RunEndEncoded) (*array.Data, error) {
	if a.RunEnds == nil || a.Values == nil {
		return nil, errs.Unsupportedf("run-end-encoded array is missing its run ends or values")
	}
	dt := datatypes.RunEndEncoded{
		RunEnds: datatypes.Field{Name: a.Meta.RunEndsName, DataType: a.RunEnds.DataType()},
		Values:  datatypes.FieldFromMeta(a.Values.DataType(), a.Meta.Values),
	}
	if err := datatypes.Validate(dt); err != nil {
		return nil, err
	}
	t, err := runEndEncodedToArrow(dt)
	if err != nil {
		return nil, err
	}
	children, err := e.children([]carray.Array{a.RunEnds, a.Values})
	if err != nil {
		return nil, err
	}
	if children[0].NullN() != 0 {
		releaseData(children)
		return nil, errs.Unsupportedf("run ends must not contain nulls")
	}
	return newData(t, a.Len(), []*memory.Buffer{nil}, children, 0), nil
}

// Map layout: [validity, offsets], one entries struct child whose children
// are [key, value].
func (e encoder) mapData(a carray.Map) (*array.Data, error) {
	logical, err := a.IntoLogicalArray()
	if err != nil {
		return nil, err
	}
	offsets := offsetsOrZero(logical.Offsets)
	n := len(offsets) - 1
	vb, nulls, err := e.validity(logical.Validity, n)
	if err != nil {
		return nil, err
	}
	kv, err := e.children([]carray.Array{logical.Entries.Fields[0].Array, logical.Entries.Fields[1].Array})
	if err != nil {
		releaseBuffers([]*memory.Buffer{vb})
		return nil, err
	}
	mt, err := mapToArrow(datatypes.MapOf(a.Keys.DataType(), a.Values.DataType(), a.Meta))
	if err != nil {
		releaseBuffers([]*memory.Buffer{vb})
		releaseData(kv)
		return nil, err
	}
	entries := newData(mt.Elem(), logical.Entries.Length, []*memory.Buffer{nil}, kv, 0)
	return newData(mt, n, []*memory.Buffer{vb, e.required(bytesOf(offsets))}, []*array.Data{entries}, nulls), nil
}

// Union layout: [nil, types] for sparse unions and [nil, types, offsets]
// for dense ones, one child per variant. Unions have no validity bitmap.
func (e encoder) unionData(a carray.Union) (*array.Data, error) {
	arrays := make([]carray.Array, len(a.Fields))
	variants := make([]datatypes.UnionVariant, len(a.Fields))
	for i, f := range a.Fields {
		arrays[i] = f.Array
		variants[i] = datatypes.UnionVariant{TypeID: f.TypeID, Field: datatypes.Field{Name: f.Meta.Name}}
	}
	mode := datatypes.Sparse
	if a.Offsets != nil {
		mode = datatypes.Dense
		if len(a.Offsets) != len(a.Types) {
			return nil, errs.Unsupportedf("dense union has %d types but %d offsets", len(a.Types), len(a.Offsets))
		}
	}
	if err := (datatypes.Union{Variants: variants, Mode: mode}).Validate(); err != nil {
		return nil, err
	}

	children, err := e.children(arrays)
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(children))
	codes := make([]arrow.UnionTypeCode, len(children))
	for i, c := range children {
		fields[i] = arrowField(a.Fields[i].Meta, c.DataType())
		codes[i] = arrow.UnionTypeCode(a.Fields[i].TypeID)
	}

	n := len(a.Types)
	typeIDs := e.required(bytesOf(a.Types))
	if mode == datatypes.Dense {
		t := arrow.DenseUnionOf(fields, codes)
		return newData(t, n, []*memory.Buffer{nil, typeIDs, e.required(bytesOf(a.Offsets))}, children, 0), nil
	}
	for i, c := range children {
		if c.Len() != n {
			releaseBuffers([]*memory.Buffer{typeIDs})
			releaseData(children)
			return nil, errs.Unsupportedf("sparse union field %q has length %d, want %d", a.Fields[i].Meta.Name, c.Len(), n)
		}
	}
	return newData(arrow.SparseUnionOf(fields, codes), n, []*memory.Buffer{nil, typeIDs}, children, 0), nil
}
