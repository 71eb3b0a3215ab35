package datatypes

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

func sampleTypes() []DataType {
	elem := NewField("element", Int64, true)
	return []DataType{
		Null, Boolean, Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64,
		Float16, Float32, Float64, Utf8, LargeUtf8, Utf8View, Binary, LargeBinary, BinaryView,
		Date32, Date64,
		FixedSizeBinary{ByteWidth: 16},
		Timestamp{Unit: Millisecond},
		Timestamp{Unit: Nanosecond, Timezone: "Europe/Berlin"},
		Time32{Unit: Second},
		Time64{Unit: Nanosecond},
		Duration{Unit: Microsecond},
		Interval{Unit: YearMonth},
		Interval{Unit: DayTime},
		Interval{Unit: MonthDayNano},
		Decimal128{Precision: 38, Scale: -2},
		Struct{Fields: []Field{
			NewField("a", Int32, false),
			{Name: "b", DataType: Utf8, Nullable: true, Metadata: map[string]string{"k": "v"}},
		}},
		Struct{},
		List{Elem: elem},
		LargeList{Elem: elem},
		FixedSizeList{Elem: elem, N: 3},
		MapOf(Utf8, Float64, DefaultMapMeta()),
		Dictionary{Key: UInt16, Value: LargeUtf8, Sorted: true},
		RunEndEncoded{RunEnds: NewField("run_ends", Int32, false), Values: NewField("values", Utf8, true)},
		Union{Mode: Dense, Variants: []UnionVariant{
			{TypeID: 0, Field: NewField("Ok", Int32, false)},
			{TypeID: 5, Field: NewField("Err", Utf8, false)},
		}},
		Union{Mode: Sparse},
	}
}

func TestTimeUnitRoundTrip(t *testing.T) {
	for _, unit := range []TimeUnit{Second, Millisecond, Microsecond, Nanosecond} {
		parsed, err := ParseTimeUnit(unit.String())
		require.NoError(t, err)
		if parsed != unit {
			t.Errorf("Expected %s, got %s", unit, parsed)
		}
	}

	_, err := ParseTimeUnit("Hour")
	require.Error(t, err)
	assert.Equal(t, errs.ParseError, errs.KindOf(err))
}

func TestUnionModeRoundTrip(t *testing.T) {
	for _, mode := range []UnionMode{Sparse, Dense} {
		parsed, err := ParseUnionMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseUnionMode("dense")
	assert.True(t, errs.Is(err, errs.ParseError))
}

func TestIntervalUnitRoundTrip(t *testing.T) {
	for _, unit := range []IntervalUnit{YearMonth, DayTime, MonthDayNano} {
		parsed, err := ParseIntervalUnit(unit.String())
		require.NoError(t, err)
		assert.Equal(t, unit, parsed)
	}

	_, err := ParseIntervalUnit("Week")
	assert.True(t, errs.Is(err, errs.ParseError))
}

func TestEqual(t *testing.T) {
	types := sampleTypes()
	for i, a := range types {
		for j, b := range types {
			if got := Equal(a, b); got != (i == j) {
				t.Errorf("Equal(%v, %v): expected %v, got %v", a, b, i == j, got)
			}
		}
	}

	withNil := NewField("x", Int8, false)
	withEmpty := Field{Name: "x", DataType: Int8, Metadata: map[string]string{}}
	assert.True(t, withNil.Equal(withEmpty))
	assert.False(t, Equal(nil, Int8))
	assert.True(t, Equal(nil, nil))
}

func TestJSONRoundTrip(t *testing.T) {
	for _, dt := range sampleTypes() {
		field := Field{Name: "col", DataType: dt, Nullable: true, Metadata: map[string]string{"origin": "test"}}

		data, err := json.Marshal(field)
		require.NoError(t, err, "marshal %v", dt)

		var decoded Field
		require.NoError(t, json.Unmarshal(data, &decoded), "unmarshal %s", data)

		if !field.Equal(decoded) {
			t.Errorf("Round trip mismatch:\n  expected %v\n  got      %v\n  json     %s", field, decoded, data)
		}
	}
}

func TestJSONShape(t *testing.T) {
	data, err := MarshalDataType(Timestamp{Unit: Millisecond, Timezone: "UTC"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Timestamp":["Millisecond","UTC"]}`, string(data))

	data, err = MarshalDataType(Timestamp{Unit: Second})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Timestamp":["Second",null]}`, string(data))

	data, err = MarshalDataType(Int64)
	require.NoError(t, err)
	assert.Equal(t, `"Int64"`, string(data))

	data, err = MarshalDataType(Decimal128{Precision: 10, Scale: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Decimal128":[10,2]}`, string(data))
}

func TestJSONRejectsMalformed(t *testing.T) {
	cases := []string{
		`"Int128"`,
		`{"Timestamp":["Hour",null]}`,
		`{"Decimal128":[10]}`,
		`{"List":{},"Struct":[]}`,
		`{"Unknown":1}`,
		`{"Union":[[[1,{"name":"a","data_type":"Int8","nullable":false}],[1,{"name":"b","data_type":"Int8","nullable":false}]],"Dense"]}`,
		`[]`,
	}
	for _, c := range cases {
		_, err := UnmarshalDataType([]byte(c))
		if err == nil {
			t.Errorf("Expected error for %s", c)
			continue
		}
		if errs.KindOf(err) == 0 {
			t.Errorf("Expected typed error for %s, got %v", c, err)
		}
	}
}

func TestValidate(t *testing.T) {
	for _, dt := range sampleTypes() {
		assert.NoError(t, Validate(dt), "%v", dt)
	}

	invalid := []DataType{
		nil,
		Basic(TIMESTAMP),
		FixedSizeBinary{ByteWidth: -1},
		Time32{Unit: Nanosecond},
		Time64{Unit: Second},
		FixedSizeList{Elem: NewField("element", Int8, false), N: -3},
		Dictionary{Key: Utf8, Value: Utf8},
		RunEndEncoded{RunEnds: NewField("run_ends", UInt32, false), Values: NewField("values", Int8, true)},
		Union{Mode: Dense, Variants: []UnionVariant{{TypeID: -1, Field: NewField("a", Int8, false)}}},
		Union{Mode: Dense, Variants: []UnionVariant{
			{TypeID: 2, Field: NewField("a", Int8, false)},
			{TypeID: 2, Field: NewField("b", Int8, false)},
		}},
		Map{Entries: NewField("entries", Int32, false)},
		List{Elem: NewField("element", Time32{Unit: Microsecond}, false)},
	}
	for _, dt := range invalid {
		err := Validate(dt)
		if assert.Error(t, err, "%v", dt) {
			assert.Equal(t, errs.Unsupported, errs.KindOf(err))
		}
	}
}

func TestMapMeta(t *testing.T) {
	meta := DefaultMapMeta()
	meta.Sorted = true
	dt := MapOf(Utf8, Int64, meta)

	assert.Equal(t, "entries", dt.Entries.Name)
	assert.False(t, dt.Entries.Nullable)

	gotMeta, key, value, err := dt.Meta()
	require.NoError(t, err)
	assert.True(t, gotMeta.Equal(meta))
	assert.Equal(t, DataType(Utf8), key)
	assert.Equal(t, DataType(Int64), value)
}

func TestDefaultMetas(t *testing.T) {
	mm := DefaultMapMeta()
	assert.Equal(t, "key", mm.Keys.Name)
	assert.False(t, mm.Keys.Nullable)
	assert.Equal(t, "value", mm.Values.Name)
	assert.True(t, mm.Values.Nullable)

	rm := DefaultRunEndEncodedMeta()
	assert.Equal(t, "run_ends", rm.RunEndsName)
	assert.Equal(t, "values", rm.Values.Name)
	assert.True(t, rm.Values.Nullable)
}

func TestString(t *testing.T) {
	assert.Equal(t, "Int64", Int64.String())
	assert.Equal(t, "Timestamp(Millisecond, UTC)", Timestamp{Unit: Millisecond, Timezone: "UTC"}.String())
	assert.Equal(t, "List(element: Int64 nullable)", List{Elem: NewField("element", Int64, true)}.String())
	assert.Equal(t, "Decimal128(5, 2)", Decimal128{Precision: 5, Scale: 2}.String())
}
