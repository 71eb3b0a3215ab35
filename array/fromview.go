package array

import (
	"slices"

	"github.com/VanDung-dev/HieraChain-Columnar/bits"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// FromView copies v into an owned array. Bit offsets are realigned to 0,
// offset buffers are rebased to start at 0, and only the data the view
// reaches is copied.
func FromView(v view.View) (Array, error) {
	n := v.Len()

	switch v := v.(type) {
	case view.Null:
		return Null{Length: v.Length}, nil
	case view.Boolean:
		return Boolean{
			Length:   v.Length,
			Validity: copyValidity(v.Validity, n),
			Values:   bits.Realign(v.Values.Data, v.Values.Offset, n),
		}, nil
	case view.Int8:
		return Int8(copyPrimitive(view.Primitive[int8](v))), nil
	case view.Int16:
		return Int16(copyPrimitive(view.Primitive[int16](v))), nil
	case view.Int32:
		return Int32(copyPrimitive(view.Primitive[int32](v))), nil
	case view.Int64:
		return Int64(copyPrimitive(view.Primitive[int64](v))), nil
	case view.UInt8:
		return UInt8(copyPrimitive(view.Primitive[uint8](v))), nil
	case view.UInt16:
		return UInt16(copyPrimitive(view.Primitive[uint16](v))), nil
	case view.UInt32:
		return UInt32(copyPrimitive(view.Primitive[uint32](v))), nil
	case view.UInt64:
		return UInt64(copyPrimitive(view.Primitive[uint64](v))), nil
	case view.Float16:
		return Float16{Validity: copyValidity(v.Validity, n), Values: slices.Clone(v.Values)}, nil
	case view.Float32:
		return Float32(copyPrimitive(view.Primitive[float32](v))), nil
	case view.Float64:
		return Float64(copyPrimitive(view.Primitive[float64](v))), nil
	case view.Date32:
		return Date32(copyPrimitive(view.Primitive[int32](v))), nil
	case view.Date64:
		return Date64(copyPrimitive(view.Primitive[int64](v))), nil
	case view.YearMonthInterval:
		return YearMonthInterval(copyPrimitive(view.Primitive[int32](v))), nil
	case view.DayTimeInterval:
		return DayTimeInterval{Validity: copyValidity(v.Validity, n), Values: slices.Clone(v.Values)}, nil
	case view.MonthDayNanoInterval:
		return MonthDayNanoInterval{Validity: copyValidity(v.Validity, n), Values: slices.Clone(v.Values)}, nil
	case view.Time32:
		return Time32{Unit: v.Unit, Validity: copyValidity(v.Validity, n), Values: slices.Clone(v.Values)}, nil
	case view.Time64:
		return Time64{Unit: v.Unit, Validity: copyValidity(v.Validity, n), Values: slices.Clone(v.Values)}, nil
	case view.Duration:
		return Duration{Unit: v.Unit, Validity: copyValidity(v.Validity, n), Values: slices.Clone(v.Values)}, nil
	case view.Timestamp:
		return Timestamp{
			Unit:     v.Unit,
			Timezone: v.Timezone,
			Validity: copyValidity(v.Validity, n),
			Values:   slices.Clone(v.Values),
		}, nil
	case view.Utf8:
		return Utf8(copyBytes(view.Bytes[int32](v))), nil
	case view.LargeUtf8:
		return LargeUtf8(copyBytes(view.Bytes[int64](v))), nil
	case view.Binary:
		return Binary(copyBytes(view.Bytes[int32](v))), nil
	case view.LargeBinary:
		return LargeBinary(copyBytes(view.Bytes[int64](v))), nil
	case view.Utf8View:
		return Utf8View(copyBytesViews(view.BytesViews(v))), nil
	case view.BinaryView:
		return BinaryView(copyBytesViews(view.BytesViews(v))), nil
	case view.FixedSizeBinary:
		return FixedSizeBinary{N: v.N, Validity: copyValidity(v.Validity, n), Data: slices.Clone(v.Data)}, nil
	case view.Decimal128:
		return Decimal128{
			Precision: v.Precision,
			Scale:     v.Scale,
			Validity:  copyValidity(v.Validity, n),
			Values:    slices.Clone(v.Values),
		}, nil
	case view.Struct:
		fields := make([]StructField, len(v.Fields))
		for i, f := range v.Fields {
			child, err := FromView(f.View)
			if err != nil {
				return nil, err
			}
			fields[i] = StructField{Meta: f.Meta, Array: child}
		}
		return Struct{Length: v.Length, Validity: copyValidity(v.Validity, n), Fields: fields}, nil
	case view.List:
		l, err := copyList(view.ListOf[int32](v))
		if err != nil {
			return nil, err
		}
		return List(l), nil
	case view.LargeList:
		l, err := copyList(view.ListOf[int64](v))
		if err != nil {
			return nil, err
		}
		return LargeList(l), nil
	case view.FixedSizeList:
		elems, err := FromView(v.Elements)
		if err != nil {
			return nil, err
		}
		return FixedSizeList{
			Length:   v.Length,
			N:        v.N,
			Validity: copyValidity(v.Validity, n),
			Meta:     v.Meta,
			Elements: elems,
		}, nil
	case view.Dictionary:
		keys, err := FromView(v.Keys)
		if err != nil {
			return nil, err
		}
		values, err := FromView(v.Values)
		if err != nil {
			return nil, err
		}
		return Dictionary{Keys: keys, Values: values, Sorted: v.Sorted}, nil
	case view.RunEndEncoded:
		runEnds, err := FromView(v.RunEnds)
		if err != nil {
			return nil, err
		}
		values, err := FromView(v.Values)
		if err != nil {
			return nil, err
		}
		return RunEndEncoded{Meta: v.Meta, RunEnds: runEnds, Values: values}, nil
	case view.Map:
		offsets, start, length := rebase(v.Offsets)
		keys, err := copyRange(v.Keys, start, length)
		if err != nil {
			return nil, err
		}
		values, err := copyRange(v.Values, start, length)
		if err != nil {
			return nil, err
		}
		return Map{Validity: copyValidity(v.Validity, n), Offsets: offsets, Meta: v.Meta, Keys: keys, Values: values}, nil
	case view.Union:
		fields := make([]UnionField, len(v.Fields))
		for i, f := range v.Fields {
			child, err := FromView(f.View)
			if err != nil {
				return nil, err
			}
			fields[i] = UnionField{TypeID: f.TypeID, Meta: f.Meta, Array: child}
		}
		out := Union{Types: slices.Clone(v.Types), Fields: fields}
		if v.Offsets != nil {
			out.Offsets = slices.Clone(v.Offsets)
		}
		return out, nil
	}
	return nil, errs.Unsupportedf("cannot copy view of type %T", v)
}

func copyValidity(v *view.BitsWithOffset, n int) []byte {
	if v == nil {
		return nil
	}
	return bits.Realign(v.Data, v.Offset, n)
}

func copyPrimitive[T any](p view.Primitive[T]) Primitive[T] {
	return Primitive[T]{Validity: copyValidity(p.Validity, len(p.Values)), Values: slices.Clone(p.Values)}
}

// rebase returns offsets shifted to start at 0 together with the absolute
// start and length of the range they cover. An empty input yields [0].
func rebase[O int32 | int64](offsets []O) ([]O, int, int) {
	if len(offsets) == 0 {
		return []O{0}, 0, 0
	}
	base := offsets[0]
	out := make([]O, len(offsets))
	for i, o := range offsets {
		out[i] = o - base
	}
	return out, int(base), int(offsets[len(offsets)-1] - base)
}

func copyBytes[O int32 | int64](b view.Bytes[O]) Bytes[O] {
	offsets, start, length := rebase(b.Offsets)
	return Bytes[O]{
		Validity: copyValidity(b.Validity, len(offsets)-1),
		Offsets:  offsets,
		Data:     slices.Clone(b.Data[start : start+length]),
	}
}

func copyBytesViews(b view.BytesViews) BytesViews {
	buffers := make([][]byte, len(b.Buffers))
	for i, buf := range b.Buffers {
		buffers[i] = slices.Clone(buf)
	}
	return BytesViews{Validity: copyValidity(b.Validity, len(b.Views)), Views: slices.Clone(b.Views), Buffers: buffers}
}

func copyRange(v view.View, start, length int) (Array, error) {
	sliced, err := view.Slice(v, start, length)
	if err != nil {
		return nil, err
	}
	return FromView(sliced)
}

func copyList[O int32 | int64](l view.ListOf[O]) (ListOf[O], error) {
	offsets, start, length := rebase(l.Offsets)
	elems, err := copyRange(l.Elements, start, length)
	if err != nil {
		return ListOf[O]{}, err
	}
	return ListOf[O]{Validity: copyValidity(l.Validity, len(offsets)-1), Offsets: offsets, Meta: l.Meta, Elements: elems}, nil
}
