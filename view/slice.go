package view

import (
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// Slice returns the elements [offset, offset+length) of v without copying.
// Bit offsets are advanced rather than rebased, and offset buffers keep
// their absolute positions into the shared data and child views.
func Slice(v View, offset, length int) (View, error) {
	if offset < 0 || length < 0 || offset+length > v.Len() {
		return nil, errs.Unsupportedf("slice [%d, %d) out of range for length %d", offset, offset+length, v.Len())
	}
	end := offset + length

	switch v := v.(type) {
	case Null:
		return Null{Length: length}, nil
	case Boolean:
		return Boolean{
			Length:   length,
			Validity: shift(v.Validity, offset),
			Values:   BitsWithOffset{Offset: v.Values.Offset + offset, Data: v.Values.Data},
		}, nil
	case Int8:
		return Int8(slicePrimitive(Primitive[int8](v), offset, end)), nil
	case Int16:
		return Int16(slicePrimitive(Primitive[int16](v), offset, end)), nil
	case Int32:
		return Int32(slicePrimitive(Primitive[int32](v), offset, end)), nil
	case Int64:
		return Int64(slicePrimitive(Primitive[int64](v), offset, end)), nil
	case UInt8:
		return UInt8(slicePrimitive(Primitive[uint8](v), offset, end)), nil
	case UInt16:
		return UInt16(slicePrimitive(Primitive[uint16](v), offset, end)), nil
	case UInt32:
		return UInt32(slicePrimitive(Primitive[uint32](v), offset, end)), nil
	case UInt64:
		return UInt64(slicePrimitive(Primitive[uint64](v), offset, end)), nil
	case Float16:
		return Float16{Validity: shift(v.Validity, offset), Values: v.Values[offset:end]}, nil
	case Float32:
		return Float32(slicePrimitive(Primitive[float32](v), offset, end)), nil
	case Float64:
		return Float64(slicePrimitive(Primitive[float64](v), offset, end)), nil
	case Date32:
		return Date32(slicePrimitive(Primitive[int32](v), offset, end)), nil
	case Date64:
		return Date64(slicePrimitive(Primitive[int64](v), offset, end)), nil
	case YearMonthInterval:
		return YearMonthInterval(slicePrimitive(Primitive[int32](v), offset, end)), nil
	case DayTimeInterval:
		return DayTimeInterval{Validity: shift(v.Validity, offset), Values: v.Values[offset:end]}, nil
	case MonthDayNanoInterval:
		return MonthDayNanoInterval{Validity: shift(v.Validity, offset), Values: v.Values[offset:end]}, nil
	case Time32:
		return Time32{Unit: v.Unit, Validity: shift(v.Validity, offset), Values: v.Values[offset:end]}, nil
	case Time64:
		return Time64{Unit: v.Unit, Validity: shift(v.Validity, offset), Values: v.Values[offset:end]}, nil
	case Duration:
		return Duration{Unit: v.Unit, Validity: shift(v.Validity, offset), Values: v.Values[offset:end]}, nil
	case Timestamp:
		v.Validity = shift(v.Validity, offset)
		v.Values = v.Values[offset:end]
		return v, nil
	case Utf8:
		return Utf8(sliceBytes(Bytes[int32](v), offset, end)), nil
	case LargeUtf8:
		return LargeUtf8(sliceBytes(Bytes[int64](v), offset, end)), nil
	case Binary:
		return Binary(sliceBytes(Bytes[int32](v), offset, end)), nil
	case LargeBinary:
		return LargeBinary(sliceBytes(Bytes[int64](v), offset, end)), nil
	case Utf8View:
		return Utf8View{Validity: shift(v.Validity, offset), Views: v.Views[offset:end], Buffers: v.Buffers}, nil
	case BinaryView:
		return BinaryView{Validity: shift(v.Validity, offset), Views: v.Views[offset:end], Buffers: v.Buffers}, nil
	case FixedSizeBinary:
		n := int(v.N)
		v.Validity = shift(v.Validity, offset)
		v.Data = v.Data[offset*n : end*n]
		return v, nil
	case Decimal128:
		v.Validity = shift(v.Validity, offset)
		v.Values = v.Values[offset:end]
		return v, nil
	case Struct:
		fields := make([]StructField, len(v.Fields))
		for i, f := range v.Fields {
			child, err := Slice(f.View, offset, length)
			if err != nil {
				return nil, err
			}
			fields[i] = StructField{Meta: f.Meta, View: child}
		}
		return Struct{Length: length, Validity: shift(v.Validity, offset), Fields: fields}, nil
	case List:
		return List(sliceList(ListOf[int32](v), offset, end)), nil
	case LargeList:
		return LargeList(sliceList(ListOf[int64](v), offset, end)), nil
	case FixedSizeList:
		n := int(v.N)
		elems, err := Slice(v.Elements, offset*n, length*n)
		if err != nil {
			return nil, err
		}
		v.Length = length
		v.Validity = shift(v.Validity, offset)
		v.Elements = elems
		return v, nil
	case Dictionary:
		keys, err := Slice(v.Keys, offset, length)
		if err != nil {
			return nil, err
		}
		v.Keys = keys
		return v, nil
	case Map:
		v.Validity = shift(v.Validity, offset)
		if len(v.Offsets) > 0 {
			v.Offsets = v.Offsets[offset : end+1]
		}
		return v, nil
	case Union:
		out := Union{Types: v.Types[offset:end], Fields: v.Fields}
		if v.Offsets != nil {
			out.Offsets = v.Offsets[offset:end]
			return out, nil
		}
		fields := make([]UnionField, len(v.Fields))
		for i, f := range v.Fields {
			child, err := Slice(f.View, offset, length)
			if err != nil {
				return nil, err
			}
			fields[i] = UnionField{TypeID: f.TypeID, Meta: f.Meta, View: child}
		}
		out.Fields = fields
		return out, nil
	case RunEndEncoded:
		return nil, errs.Unsupportedf("cannot slice run-end-encoded view of length %d", v.Len())
	}
	return nil, errs.Unsupportedf("cannot slice view of type %s", v.DataType())
}

func slicePrimitive[T any](p Primitive[T], offset, end int) Primitive[T] {
	return Primitive[T]{Validity: shift(p.Validity, offset), Values: p.Values[offset:end]}
}

func sliceBytes[O int32 | int64](b Bytes[O], offset, end int) Bytes[O] {
	b.Validity = shift(b.Validity, offset)
	if len(b.Offsets) > 0 {
		b.Offsets = b.Offsets[offset : end+1]
	}
	return b
}

func sliceList[O int32 | int64](l ListOf[O], offset, end int) ListOf[O] {
	l.Validity = shift(l.Validity, offset)
	if len(l.Offsets) > 0 {
		l.Offsets = l.Offsets[offset : end+1]
	}
	return l
}
