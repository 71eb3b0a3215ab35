package array

import (
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

func (Null) isArray()                 {}
func (Boolean) isArray()              {}
func (Int8) isArray()                 {}
func (Int16) isArray()                {}
func (Int32) isArray()                {}
func (Int64) isArray()                {}
func (UInt8) isArray()                {}
func (UInt16) isArray()               {}
func (UInt32) isArray()               {}
func (UInt64) isArray()               {}
func (Float16) isArray()              {}
func (Float32) isArray()              {}
func (Float64) isArray()              {}
func (Date32) isArray()               {}
func (Date64) isArray()               {}
func (YearMonthInterval) isArray()    {}
func (DayTimeInterval) isArray()      {}
func (MonthDayNanoInterval) isArray() {}
func (Time32) isArray()               {}
func (Time64) isArray()               {}
func (Duration) isArray()             {}
func (Timestamp) isArray()            {}
func (Utf8) isArray()                 {}
func (LargeUtf8) isArray()            {}
func (Binary) isArray()               {}
func (LargeBinary) isArray()          {}
func (Utf8View) isArray()             {}
func (BinaryView) isArray()           {}
func (FixedSizeBinary) isArray()      {}
func (Decimal128) isArray()           {}
func (Struct) isArray()               {}
func (List) isArray()                 {}
func (LargeList) isArray()            {}
func (FixedSizeList) isArray()        {}
func (Dictionary) isArray()           {}
func (RunEndEncoded) isArray()        {}
func (Map) isArray()                  {}
func (Union) isArray()                {}

func (a Null) DataType() datatypes.DataType                 { return a.AsView().DataType() }
func (a Boolean) DataType() datatypes.DataType              { return a.AsView().DataType() }
func (a Int8) DataType() datatypes.DataType                 { return a.AsView().DataType() }
func (a Int16) DataType() datatypes.DataType                { return a.AsView().DataType() }
func (a Int32) DataType() datatypes.DataType                { return a.AsView().DataType() }
func (a Int64) DataType() datatypes.DataType                { return a.AsView().DataType() }
func (a UInt8) DataType() datatypes.DataType                { return a.AsView().DataType() }
func (a UInt16) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a UInt32) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a UInt64) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a Float16) DataType() datatypes.DataType              { return a.AsView().DataType() }
func (a Float32) DataType() datatypes.DataType              { return a.AsView().DataType() }
func (a Float64) DataType() datatypes.DataType              { return a.AsView().DataType() }
func (a Date32) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a Date64) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a YearMonthInterval) DataType() datatypes.DataType    { return a.AsView().DataType() }
func (a DayTimeInterval) DataType() datatypes.DataType      { return a.AsView().DataType() }
func (a MonthDayNanoInterval) DataType() datatypes.DataType { return a.AsView().DataType() }
func (a Time32) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a Time64) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a Duration) DataType() datatypes.DataType             { return a.AsView().DataType() }
func (a Timestamp) DataType() datatypes.DataType            { return a.AsView().DataType() }
func (a Utf8) DataType() datatypes.DataType                 { return a.AsView().DataType() }
func (a LargeUtf8) DataType() datatypes.DataType            { return a.AsView().DataType() }
func (a Binary) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a LargeBinary) DataType() datatypes.DataType          { return a.AsView().DataType() }
func (a Utf8View) DataType() datatypes.DataType             { return a.AsView().DataType() }
func (a BinaryView) DataType() datatypes.DataType           { return a.AsView().DataType() }
func (a FixedSizeBinary) DataType() datatypes.DataType      { return a.AsView().DataType() }
func (a Decimal128) DataType() datatypes.DataType           { return a.AsView().DataType() }
func (a Struct) DataType() datatypes.DataType               { return a.AsView().DataType() }
func (a List) DataType() datatypes.DataType                 { return a.AsView().DataType() }
func (a LargeList) DataType() datatypes.DataType            { return a.AsView().DataType() }
func (a FixedSizeList) DataType() datatypes.DataType        { return a.AsView().DataType() }
func (a Dictionary) DataType() datatypes.DataType           { return a.AsView().DataType() }
func (a RunEndEncoded) DataType() datatypes.DataType        { return a.AsView().DataType() }
func (a Map) DataType() datatypes.DataType                  { return a.AsView().DataType() }
func (a Union) DataType() datatypes.DataType                { return a.AsView().DataType() }

func (a Null) Len() int                 { return a.Length }
func (a Boolean) Len() int              { return a.Length }
func (a Int8) Len() int                 { return len(a.Values) }
func (a Int16) Len() int                { return len(a.Values) }
func (a Int32) Len() int                { return len(a.Values) }
func (a Int64) Len() int                { return len(a.Values) }
func (a UInt8) Len() int                { return len(a.Values) }
func (a UInt16) Len() int               { return len(a.Values) }
func (a UInt32) Len() int               { return len(a.Values) }
func (a UInt64) Len() int               { return len(a.Values) }
func (a Float16) Len() int              { return len(a.Values) }
func (a Float32) Len() int              { return len(a.Values) }
func (a Float64) Len() int              { return len(a.Values) }
func (a Date32) Len() int               { return len(a.Values) }
func (a Date64) Len() int               { return len(a.Values) }
func (a YearMonthInterval) Len() int    { return len(a.Values) }
func (a DayTimeInterval) Len() int      { return len(a.Values) }
func (a MonthDayNanoInterval) Len() int { return len(a.Values) }
func (a Time32) Len() int               { return len(a.Values) }
func (a Time64) Len() int               { return len(a.Values) }
func (a Duration) Len() int             { return len(a.Values) }
func (a Timestamp) Len() int            { return len(a.Values) }
func (a Utf8) Len() int                 { return offsetsLen(a.Offsets) }
func (a LargeUtf8) Len() int            { return offsetsLen(a.Offsets) }
func (a Binary) Len() int               { return offsetsLen(a.Offsets) }
func (a LargeBinary) Len() int          { return offsetsLen(a.Offsets) }
func (a Utf8View) Len() int             { return len(a.Views) }
func (a BinaryView) Len() int           { return len(a.Views) }
func (a Decimal128) Len() int           { return len(a.Values) }
func (a Struct) Len() int               { return a.Length }
func (a List) Len() int                 { return offsetsLen(a.Offsets) }
func (a LargeList) Len() int            { return offsetsLen(a.Offsets) }
func (a FixedSizeList) Len() int        { return a.Length }
func (a Dictionary) Len() int           { return a.Keys.Len() }
func (a Map) Len() int                  { return offsetsLen(a.Offsets) }
func (a Union) Len() int                { return len(a.Types) }

func (a FixedSizeBinary) Len() int { return a.AsView().Len() }
func (a RunEndEncoded) Len() int   { return a.AsView().Len() }

func offsetsLen[O int32 | int64](offsets []O) int {
	if len(offsets) == 0 {
		return 0
	}
	return len(offsets) - 1
}

func bitsView(b []byte) *view.BitsWithOffset {
	if b == nil {
		return nil
	}
	return &view.BitsWithOffset{Data: b}
}

func asView(a Array) view.View {
	if a == nil {
		return nil
	}
	return a.AsView()
}

func (a Null) AsView() view.View { return view.Null{Length: a.Length} }

func (a Boolean) AsView() view.View {
	return view.Boolean{Length: a.Length, Validity: bitsView(a.Validity), Values: view.BitsWithOffset{Data: a.Values}}
}

func (a Int8) AsView() view.View                 { return view.Int8{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Int16) AsView() view.View                { return view.Int16{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Int32) AsView() view.View                { return view.Int32{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Int64) AsView() view.View                { return view.Int64{Validity: bitsView(a.Validity), Values: a.Values} }
func (a UInt8) AsView() view.View                { return view.UInt8{Validity: bitsView(a.Validity), Values: a.Values} }
func (a UInt16) AsView() view.View               { return view.UInt16{Validity: bitsView(a.Validity), Values: a.Values} }
func (a UInt32) AsView() view.View               { return view.UInt32{Validity: bitsView(a.Validity), Values: a.Values} }
func (a UInt64) AsView() view.View               { return view.UInt64{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Float16) AsView() view.View              { return view.Float16{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Float32) AsView() view.View              { return view.Float32{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Float64) AsView() view.View              { return view.Float64{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Date32) AsView() view.View               { return view.Date32{Validity: bitsView(a.Validity), Values: a.Values} }
func (a Date64) AsView() view.View               { return view.Date64{Validity: bitsView(a.Validity), Values: a.Values} }
func (a YearMonthInterval) AsView() view.View    { return view.YearMonthInterval{Validity: bitsView(a.Validity), Values: a.Values} }
func (a DayTimeInterval) AsView() view.View      { return view.DayTimeInterval{Validity: bitsView(a.Validity), Values: a.Values} }
func (a MonthDayNanoInterval) AsView() view.View { return view.MonthDayNanoInterval{Validity: bitsView(a.Validity), Values: a.Values} }

func (a Time32) AsView() view.View {
	return view.Time32{Unit: a.Unit, Validity: bitsView(a.Validity), Values: a.Values}
}

func (a Time64) AsView() view.View {
	return view.Time64{Unit: a.Unit, Validity: bitsView(a.Validity), Values: a.Values}
}

func (a Duration) AsView() view.View {
	return view.Duration{Unit: a.Unit, Validity: bitsView(a.Validity), Values: a.Values}
}

func (a Timestamp) AsView() view.View {
	return view.Timestamp{Unit: a.Unit, Timezone: a.Timezone, Validity: bitsView(a.Validity), Values: a.Values}
}

func (a Utf8) AsView() view.View {
	return view.Utf8{Validity: bitsView(a.Validity), Offsets: a.Offsets, Data: a.Data}
}

func (a LargeUtf8) AsView() view.View {
	return view.LargeUtf8{Validity: bitsView(a.Validity), Offsets: a.Offsets, Data: a.Data}
}

func (a Binary) AsView() view.View {
	return view.Binary{Validity: bitsView(a.Validity), Offsets: a.Offsets, Data: a.Data}
}

func (a LargeBinary) AsView() view.View {
	return view.LargeBinary{Validity: bitsView(a.Validity), Offsets: a.Offsets, Data: a.Data}
}

func (a Utf8View) AsView() view.View {
	return view.Utf8View{Validity: bitsView(a.Validity), Views: a.Views, Buffers: a.Buffers}
}

func (a BinaryView) AsView() view.View {
	return view.BinaryView{Validity: bitsView(a.Validity), Views: a.Views, Buffers: a.Buffers}
}

func (a FixedSizeBinary) AsView() view.View {
	return view.FixedSizeBinary{N: a.N, Validity: bitsView(a.Validity), Data: a.Data}
}

func (a Decimal128) AsView() view.View {
	return view.Decimal128{Precision: a.Precision, Scale: a.Scale, Validity: bitsView(a.Validity), Values: a.Values}
}

func (a Struct) AsView() view.View {
	fields := make([]view.StructField, len(a.Fields))
	for i, f := range a.Fields {
		fields[i] = view.StructField{Meta: f.Meta, View: asView(f.Array)}
	}
	return view.Struct{Length: a.Length, Validity: bitsView(a.Validity), Fields: fields}
}

func (a List) AsView() view.View {
	return view.List{Validity: bitsView(a.Validity), Offsets: a.Offsets, Meta: a.Meta, Elements: asView(a.Elements)}
}

func (a LargeList) AsView() view.View {
	return view.LargeList{Validity: bitsView(a.Validity), Offsets: a.Offsets, Meta: a.Meta, Elements: asView(a.Elements)}
}

func (a FixedSizeList) AsView() view.View {
	return view.FixedSizeList{
		Length:   a.Length,
		N:        a.N,
		Validity: bitsView(a.Validity),
		Meta:     a.Meta,
		Elements: asView(a.Elements),
	}
}

func (a Dictionary) AsView() view.View {
	return view.Dictionary{Keys: asView(a.Keys), Values: asView(a.Values), Sorted: a.Sorted}
}

func (a RunEndEncoded) AsView() view.View {
	return view.RunEndEncoded{Meta: a.Meta, RunEnds: asView(a.RunEnds), Values: asView(a.Values)}
}

func (a Map) AsView() view.View {
	return view.Map{
		Validity: bitsView(a.Validity),
		Offsets:  a.Offsets,
		Meta:     a.Meta,
		Keys:     asView(a.Keys),
		Values:   asView(a.Values),
	}
}

func (a Union) AsView() view.View {
	fields := make([]view.UnionField, len(a.Fields))
	for i, f := range a.Fields {
		fields[i] = view.UnionField{TypeID: f.TypeID, Meta: f.Meta, View: asView(f.Array)}
	}
	return view.Union{Types: a.Types, Offsets: a.Offsets, Fields: fields}
}
