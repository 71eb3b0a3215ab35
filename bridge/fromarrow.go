package bridge

import (
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/x448/float16"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/types"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// ViewOf borrows the buffers of arr without copying. The view is valid
// only while arr is retained.
func ViewOf(arr arrow.Array) (view.View, error) {
	if arr == nil {
		return nil, errs.Unsupportedf("missing arrow array")
	}
	return viewData(arr.Data())
}

// FromArrow copies arr into an owned array with all offsets rebased to
// zero. arr may be released afterwards.
func FromArrow(arr arrow.Array) (carray.Array, error) {
	v, err := ViewOf(arr)
	if err != nil {
		return nil, err
	}
	return carray.FromView(v)
}

// Borrowed is a view that keeps its runtime array alive until Release.
type Borrowed struct {
	View view.View

	arr      arrow.Array
	released atomic.Bool
}

// Borrow retains arr and views it.
func Borrow(arr arrow.Array) (*Borrowed, error) {
	v, err := ViewOf(arr)
	if err != nil {
		return nil, err
	}
	arr.Retain()
	return &Borrowed{View: v, arr: arr}, nil
}

// Release drops the reference taken by Borrow. Only the first call has an
// effect.
func (b *Borrowed) Release() {
	if b.released.CompareAndSwap(false, true) {
		b.arr.Release()
	}
}

func viewData(d arrow.ArrayData) (view.View, error) {
	t, err := typeFromArrow(d.DataType())
	if err != nil {
		return nil, err
	}
	return viewOf(t, d)
}

func done[V view.View](v V, err error) (view.View, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func primitive[T any](d arrow.ArrayData) (view.Primitive[T], error) {
	values, err := sliceOf[T](bufferBytes(d, 1), d.Offset(), d.Len())
	return view.Primitive[T]{Validity: validityOf(d), Values: values}, err
}

func timeOf[T int32 | int64](d arrow.ArrayData, unit datatypes.TimeUnit) (view.TimeOf[T], error) {
	values, err := sliceOf[T](bufferBytes(d, 1), d.Offset(), d.Len())
	return view.TimeOf[T]{Unit: unit, Validity: validityOf(d), Values: values}, err
}

// offsetsOf borrows the len+1 offsets of d. Empty arrays may come without
// an offsets buffer.
func offsetsOf[O int32 | int64](d arrow.ArrayData) ([]O, error) {
	buf := bufferBytes(d, 1)
	if d.Len() == 0 && len(buf) == 0 {
		return nil, nil
	}
	return sliceOf[O](buf, d.Offset(), d.Len()+1)
}

func varBinaryOf[O int32 | int64](d arrow.ArrayData) (view.Bytes[O], error) {
	offsets, err := offsetsOf[O](d)
	return view.Bytes[O]{Validity: validityOf(d), Offsets: offsets, Data: bufferBytes(d, 2)}, err
}

func binaryViewsOf(d arrow.ArrayData) (view.BytesViews, error) {
	views, err := sliceOf[[16]byte](bufferBytes(d, 1), d.Offset(), d.Len())
	if err != nil {
		return view.BytesViews{}, err
	}
	bufs := d.Buffers()
	var data [][]byte
	for i := 2; i < len(bufs); i++ {
		data = append(data, bufferBytes(d, i))
	}
	return view.BytesViews{Validity: validityOf(d), Views: views, Buffers: data}, nil
}

func listOf[O int32 | int64](d arrow.ArrayData, elem datatypes.Field) (view.ListOf[O], error) {
	offsets, err := offsetsOf[O](d)
	if err != nil {
		return view.ListOf[O]{}, err
	}
	elems, err := childView(d, 0, elem.DataType)
	if err != nil {
		return view.ListOf[O]{}, err
	}
	return view.ListOf[O]{Validity: validityOf(d), Offsets: offsets, Meta: elem.Meta(), Elements: elems}, nil
}

func childView(d arrow.ArrayData, i int, t datatypes.DataType) (view.View, error) {
	children := d.Children()
	if i >= len(children) {
		return nil, errs.New(errs.ArrowError, "%s data has %d children, want at least %d", d.DataType(), len(children), i+1)
	}
	return viewOf(t, children[i])
}

// sliceChild restricts a child view to the parent's window. Struct, sparse
// union and fixed size list children share the parent's offset.
func sliceChild(v view.View, offset, length int) (view.View, error) {
	if offset == 0 && v.Len() == length {
		return v, nil
	}
	return view.Slice(v, offset, length)
}

func viewOf(t datatypes.DataType, d arrow.ArrayData) (view.View, error) {
	off, n := d.Offset(), d.Len()

	switch t := t.(type) {
	case datatypes.Basic:
		return basicView(t, d)
	case datatypes.Interval:
		switch t.Unit {
		case datatypes.YearMonth:
			p, err := primitive[int32](d)
			return done(view.YearMonthInterval(p), err)
		case datatypes.DayTime:
			p, err := primitive[types.DayTimeInterval](d)
			return done(view.DayTimeInterval(p), err)
		case datatypes.MonthDayNano:
			p, err := primitive[types.MonthDayNanoInterval](d)
			return done(view.MonthDayNanoInterval(p), err)
		}
	case datatypes.Time32:
		p, err := timeOf[int32](d, t.Unit)
		return done(view.Time32(p), err)
	case datatypes.Time64:
		p, err := timeOf[int64](d, t.Unit)
		return done(view.Time64(p), err)
	case datatypes.Duration:
		p, err := timeOf[int64](d, t.Unit)
		return done(view.Duration(p), err)
	case datatypes.Timestamp:
		values, err := sliceOf[int64](bufferBytes(d, 1), off, n)
		return done(view.Timestamp{Unit: t.Unit, Timezone: t.Timezone, Validity: validityOf(d), Values: values}, err)
	case datatypes.FixedSizeBinary:
		w := int(t.ByteWidth)
		buf := bufferBytes(d, 1)
		start, end := off*w, (off+n)*w
		if end > len(buf) {
			return nil, errs.New(errs.ArrowError, "fixed size binary buffer of %d bytes is too short for %d elements of width %d", len(buf), off+n, w)
		}
		return view.FixedSizeBinary{N: t.ByteWidth, Validity: validityOf(d), Data: buf[start:end]}, nil
	case datatypes.Decimal128:
		values, err := sliceOf[types.Int128](bufferBytes(d, 1), off, n)
		return done(view.Decimal128{Precision: t.Precision, Scale: t.Scale, Validity: validityOf(d), Values: values}, err)
	case datatypes.Struct:
		fields := make([]view.StructField, len(t.Fields))
		for i, f := range t.Fields {
			child, err := childView(d, i, f.DataType)
			if err != nil {
				return nil, err
			}
			if child, err = sliceChild(child, off, n); err != nil {
				return nil, err
			}
			fields[i] = view.StructField{Meta: f.Meta(), View: child}
		}
		return view.Struct{Length: n, Validity: validityOf(d), Fields: fields}, nil
	case datatypes.List:
		l, err := listOf[int32](d, t.Elem)
		return done(view.List(l), err)
	case datatypes.LargeList:
		l, err := listOf[int64](d, t.Elem)
		return done(view.LargeList(l), err)
	case datatypes.FixedSizeList:
		elems, err := childView(d, 0, t.Elem.DataType)
		if err != nil {
			return nil, err
		}
		size := int(t.N)
		if elems, err = sliceChild(elems, off*size, n*size); err != nil {
			return nil, err
		}
		return view.FixedSizeList{Length: n, N: t.N, Validity: validityOf(d), Meta: t.Elem.Meta(), Elements: elems}, nil
	case datatypes.Map:
		return mapView(t, d)
	case datatypes.Dictionary:
		keys, err := viewOf(t.Key, d)
		if err != nil {
			return nil, err
		}
		dict := d.Dictionary()
		if dict == nil {
			return nil, errs.New(errs.ArrowError, "dictionary array has no dictionary")
		}
		values, err := viewData(dict)
		if err != nil {
			return nil, err
		}
		return view.Dictionary{Keys: keys, Values: values, Sorted: t.Sorted}, nil
	case datatypes.RunEndEncoded:
		if off != 0 {
			return nil, errs.Unsupportedf("sliced run-end-encoded arrays are not supported (offset %d)", off)
		}
		runEnds, err := childView(d, 0, t.RunEnds.DataType)
		if err != nil {
			return nil, err
		}
		values, err := childView(d, 1, t.Values.DataType)
		if err != nil {
			return nil, err
		}
		v := view.RunEndEncoded{
			Meta:    datatypes.RunEndEncodedMeta{RunEndsName: t.RunEnds.Name, Values: t.Values.Meta()},
			RunEnds: runEnds,
			Values:  values,
		}
		if v.Len() != n {
			return nil, errs.Unsupportedf("run-end-encoded array of length %d ends its last run at %d", n, v.Len())
		}
		return v, nil
	case datatypes.Union:
		return unionView(t, d)
	}
	return nil, errs.Unsupportedf("cannot view %s data", t)
}

func basicView(t datatypes.Basic, d arrow.ArrayData) (view.View, error) {
	switch t {
	case datatypes.Null:
		return view.Null{Length: d.Len()}, nil
	case datatypes.Boolean:
		return view.Boolean{
			Length:   d.Len(),
			Validity: validityOf(d),
			Values:   view.BitsWithOffset{Offset: d.Offset(), Data: bufferBytes(d, 1)},
		}, nil
	case datatypes.Int8:
		p, err := primitive[int8](d)
		return done(view.Int8(p), err)
	case datatypes.Int16:
		p, err := primitive[int16](d)
		return done(view.Int16(p), err)
	case datatypes.Int32:
		p, err := primitive[int32](d)
		return done(view.Int32(p), err)
	case datatypes.Int64:
		p, err := primitive[int64](d)
		return done(view.Int64(p), err)
	case datatypes.UInt8:
		p, err := primitive[uint8](d)
		return done(view.UInt8(p), err)
	case datatypes.UInt16:
		p, err := primitive[uint16](d)
		return done(view.UInt16(p), err)
	case datatypes.UInt32:
		p, err := primitive[uint32](d)
		return done(view.UInt32(p), err)
	case datatypes.UInt64:
		p, err := primitive[uint64](d)
		return done(view.UInt64(p), err)
	case datatypes.Float16:
		p, err := primitive[float16.Float16](d)
		return done(view.Float16(p), err)
	case datatypes.Float32:
		p, err := primitive[float32](d)
		return done(view.Float32(p), err)
	case datatypes.Float64:
		p, err := primitive[float64](d)
		return done(view.Float64(p), err)
	case datatypes.Date32:
		p, err := primitive[int32](d)
		return done(view.Date32(p), err)
	case datatypes.Date64:
		p, err := primitive[int64](d)
		return done(view.Date64(p), err)
	case datatypes.Utf8:
		b, err := varBinaryOf[int32](d)
		return done(view.Utf8(b), err)
	case datatypes.LargeUtf8:
		b, err := varBinaryOf[int64](d)
		return done(view.LargeUtf8(b), err)
	case datatypes.Binary:
		b, err := varBinaryOf[int32](d)
		return done(view.Binary(b), err)
	case datatypes.LargeBinary:
		b, err := varBinaryOf[int64](d)
		return done(view.LargeBinary(b), err)
	case datatypes.Utf8View:
		b, err := binaryViewsOf(d)
		return done(view.Utf8View(b), err)
	case datatypes.BinaryView:
		b, err := binaryViewsOf(d)
		return done(view.BinaryView(b), err)
	}
	return nil, errs.Unsupportedf("cannot view %s data", t)
}

// Map data has one entries struct child whose children are the keys and
// the values. Map offsets index the entries directly.
func mapView(t datatypes.Map, d arrow.ArrayData) (view.View, error) {
	meta, keyType, valueType, err := t.Meta()
	if err != nil {
		return nil, err
	}
	offsets, err := offsetsOf[int32](d)
	if err != nil {
		return nil, err
	}
	children := d.Children()
	if len(children) != 1 {
		return nil, errs.New(errs.ArrowError, "map data has %d children, want 1", len(children))
	}
	entries := children[0]
	keys, err := childView(entries, 0, keyType)
	if err != nil {
		return nil, err
	}
	values, err := childView(entries, 1, valueType)
	if err != nil {
		return nil, err
	}
	if keys, err = sliceChild(keys, entries.Offset(), entries.Len()); err != nil {
		return nil, err
	}
	if values, err = sliceChild(values, entries.Offset(), entries.Len()); err != nil {
		return nil, err
	}
	return view.Map{Validity: validityOf(d), Offsets: offsets, Meta: meta, Keys: keys, Values: values}, nil
}

// Union data is [nil, types] for sparse and [nil, types, offsets] for
// dense unions. Dense children are not windowed by the parent offset.
func unionView(t datatypes.Union, d arrow.ArrayData) (view.View, error) {
	off, n := d.Offset(), d.Len()
	typeIDs, err := sliceOf[int8](bufferBytes(d, 1), off, n)
	if err != nil {
		return nil, err
	}
	var offsets []int32
	if t.Mode == datatypes.Dense {
		if offsets, err = sliceOf[int32](bufferBytes(d, 2), off, n); err != nil {
			return nil, err
		}
		if offsets == nil {
			offsets = []int32{}
		}
	}
	fields := make([]view.UnionField, len(t.Variants))
	for i, variant := range t.Variants {
		child, err := childView(d, i, variant.Field.DataType)
		if err != nil {
			return nil, err
		}
		if t.Mode == datatypes.Sparse {
			if child, err = sliceChild(child, off, n); err != nil {
				return nil, err
			}
		}
		fields[i] = view.UnionField{TypeID: variant.TypeID, Meta: variant.Field.Meta(), View: child}
	}
	return view.Union{Types: typeIDs, Offsets: offsets, Fields: fields}, nil
}
