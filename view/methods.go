package view

import (
	dt "github.com/VanDung-dev/HieraChain-Columnar/datatypes"
)

func (Null) isView()                 {}
func (Boolean) isView()              {}
func (Int8) isView()                 {}
func (Int16) isView()                {}
func (Int32) isView()                {}
func (Int64) isView()                {}
func (UInt8) isView()                {}
func (UInt16) isView()               {}
func (UInt32) isView()               {}
func (UInt64) isView()               {}
func (Float16) isView()              {}
func (Float32) isView()              {}
func (Float64) isView()              {}
func (Date32) isView()               {}
func (Date64) isView()               {}
func (YearMonthInterval) isView()    {}
func (DayTimeInterval) isView()      {}
func (MonthDayNanoInterval) isView() {}
func (Time32) isView()               {}
func (Time64) isView()               {}
func (Duration) isView()             {}
func (Timestamp) isView()            {}
func (Utf8) isView()                 {}
func (LargeUtf8) isView()            {}
func (Binary) isView()               {}
func (LargeBinary) isView()          {}
func (Utf8View) isView()             {}
func (BinaryView) isView()           {}
func (FixedSizeBinary) isView()      {}
func (Decimal128) isView()           {}
func (Struct) isView()               {}
func (List) isView()                 {}
func (LargeList) isView()            {}
func (FixedSizeList) isView()        {}
func (Dictionary) isView()           {}
func (RunEndEncoded) isView()        {}
func (Map) isView()                  {}
func (Union) isView()                {}

func (Null) DataType() dt.DataType                 { return dt.Null }
func (Boolean) DataType() dt.DataType              { return dt.Boolean }
func (Int8) DataType() dt.DataType                 { return dt.Int8 }
func (Int16) DataType() dt.DataType                { return dt.Int16 }
func (Int32) DataType() dt.DataType                { return dt.Int32 }
func (Int64) DataType() dt.DataType                { return dt.Int64 }
func (UInt8) DataType() dt.DataType                { return dt.UInt8 }
func (UInt16) DataType() dt.DataType               { return dt.UInt16 }
func (UInt32) DataType() dt.DataType               { return dt.UInt32 }
func (UInt64) DataType() dt.DataType               { return dt.UInt64 }
func (Float16) DataType() dt.DataType              { return dt.Float16 }
func (Float32) DataType() dt.DataType              { return dt.Float32 }
func (Float64) DataType() dt.DataType              { return dt.Float64 }
func (Date32) DataType() dt.DataType               { return dt.Date32 }
func (Date64) DataType() dt.DataType               { return dt.Date64 }
func (YearMonthInterval) DataType() dt.DataType    { return dt.Interval{Unit: dt.YearMonth} }
func (DayTimeInterval) DataType() dt.DataType      { return dt.Interval{Unit: dt.DayTime} }
func (MonthDayNanoInterval) DataType() dt.DataType { return dt.Interval{Unit: dt.MonthDayNano} }
func (v Time32) DataType() dt.DataType             { return dt.Time32{Unit: v.Unit} }
func (v Time64) DataType() dt.DataType             { return dt.Time64{Unit: v.Unit} }
func (v Duration) DataType() dt.DataType           { return dt.Duration{Unit: v.Unit} }
func (Utf8) DataType() dt.DataType                 { return dt.Utf8 }
func (LargeUtf8) DataType() dt.DataType            { return dt.LargeUtf8 }
func (Binary) DataType() dt.DataType               { return dt.Binary }
func (LargeBinary) DataType() dt.DataType          { return dt.LargeBinary }
func (Utf8View) DataType() dt.DataType             { return dt.Utf8View }
func (BinaryView) DataType() dt.DataType           { return dt.BinaryView }

func (v Timestamp) DataType() dt.DataType {
	return dt.Timestamp{Unit: v.Unit, Timezone: v.Timezone}
}

func (v FixedSizeBinary) DataType() dt.DataType { return dt.FixedSizeBinary{ByteWidth: v.N} }

func (v Decimal128) DataType() dt.DataType {
	return dt.Decimal128{Precision: v.Precision, Scale: v.Scale}
}

func (v Struct) DataType() dt.DataType {
	fields := make([]dt.Field, len(v.Fields))
	for i, f := range v.Fields {
		fields[i] = dt.FieldFromMeta(f.View.DataType(), f.Meta)
	}
	return dt.Struct{Fields: fields}
}

func (v List) DataType() dt.DataType {
	return dt.List{Elem: dt.FieldFromMeta(v.Elements.DataType(), v.Meta)}
}

func (v LargeList) DataType() dt.DataType {
	return dt.LargeList{Elem: dt.FieldFromMeta(v.Elements.DataType(), v.Meta)}
}

func (v FixedSizeList) DataType() dt.DataType {
	return dt.FixedSizeList{Elem: dt.FieldFromMeta(v.Elements.DataType(), v.Meta), N: v.N}
}

func (v Dictionary) DataType() dt.DataType {
	return dt.Dictionary{Key: v.Keys.DataType(), Value: v.Values.DataType(), Sorted: v.Sorted}
}

func (v RunEndEncoded) DataType() dt.DataType {
	return dt.RunEndEncoded{
		RunEnds: dt.Field{Name: v.Meta.RunEndsName, DataType: v.RunEnds.DataType()},
		Values:  dt.FieldFromMeta(v.Values.DataType(), v.Meta.Values),
	}
}

func (v Map) DataType() dt.DataType {
	return dt.MapOf(v.Keys.DataType(), v.Values.DataType(), v.Meta)
}

func (v Union) DataType() dt.DataType {
	variants := make([]dt.UnionVariant, len(v.Fields))
	for i, f := range v.Fields {
		variants[i] = dt.UnionVariant{TypeID: f.TypeID, Field: dt.FieldFromMeta(f.View.DataType(), f.Meta)}
	}
	mode := dt.Sparse
	if v.Offsets != nil {
		mode = dt.Dense
	}
	return dt.Union{Variants: variants, Mode: mode}
}

func offsetsLen[O int32 | int64](offsets []O) int {
	if len(offsets) == 0 {
		return 0
	}
	return len(offsets) - 1
}

func (v Null) Len() int                 { return v.Length }
func (v Boolean) Len() int              { return v.Length }
func (v Int8) Len() int                 { return len(v.Values) }
func (v Int16) Len() int                { return len(v.Values) }
func (v Int32) Len() int                { return len(v.Values) }
func (v Int64) Len() int                { return len(v.Values) }
func (v UInt8) Len() int                { return len(v.Values) }
func (v UInt16) Len() int               { return len(v.Values) }
func (v UInt32) Len() int               { return len(v.Values) }
func (v UInt64) Len() int               { return len(v.Values) }
func (v Float16) Len() int              { return len(v.Values) }
func (v Float32) Len() int              { return len(v.Values) }
func (v Float64) Len() int              { return len(v.Values) }
func (v Date32) Len() int               { return len(v.Values) }
func (v Date64) Len() int               { return len(v.Values) }
func (v YearMonthInterval) Len() int    { return len(v.Values) }
func (v DayTimeInterval) Len() int      { return len(v.Values) }
func (v MonthDayNanoInterval) Len() int { return len(v.Values) }
func (v Time32) Len() int               { return len(v.Values) }
func (v Time64) Len() int               { return len(v.Values) }
func (v Duration) Len() int             { return len(v.Values) }
func (v Timestamp) Len() int            { return len(v.Values) }
func (v Utf8) Len() int                 { return offsetsLen(v.Offsets) }
func (v LargeUtf8) Len() int            { return offsetsLen(v.Offsets) }
func (v Binary) Len() int               { return offsetsLen(v.Offsets) }
func (v LargeBinary) Len() int          { return offsetsLen(v.Offsets) }
func (v Utf8View) Len() int             { return len(v.Views) }
func (v BinaryView) Len() int           { return len(v.Views) }
func (v Decimal128) Len() int           { return len(v.Values) }
func (v Struct) Len() int               { return v.Length }
func (v List) Len() int                 { return offsetsLen(v.Offsets) }
func (v LargeList) Len() int            { return offsetsLen(v.Offsets) }
func (v FixedSizeList) Len() int        { return v.Length }
func (v Dictionary) Len() int           { return v.Keys.Len() }
func (v Map) Len() int                  { return offsetsLen(v.Offsets) }
func (v Union) Len() int                { return len(v.Types) }

// Len returns 0 for a zero width, since the element count cannot be
// recovered from the data.
func (v FixedSizeBinary) Len() int {
	if v.N <= 0 {
		return 0
	}
	return len(v.Data) / int(v.N)
}

// Len returns the logical length, which is the last run end.
func (v RunEndEncoded) Len() int {
	n := v.RunEnds.Len()
	if n == 0 {
		return 0
	}
	end, ok := IntAt(v.RunEnds, n-1)
	if !ok {
		return 0
	}
	return int(end)
}
