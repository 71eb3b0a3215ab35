package view

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(nil, 100))

	validity := &BitsWithOffset{Offset: 3, Data: []byte{0b0010_1000}}
	assert.True(t, IsValid(validity, 0))
	assert.False(t, IsValid(validity, 1))
	assert.True(t, IsValid(validity, 2))
}

func TestSlicePrimitiveAdvancesOffset(t *testing.T) {
	v := Int64{
		Validity: &BitsWithOffset{Data: []byte{0b0000_0011}},
		Values:   []int64{1, -2, 0, 0},
	}
	for off := 0; off <= 4; off++ {
		for n := 0; off+n <= 4; n++ {
			s, err := Slice(v, off, n)
			require.NoError(t, err)
			got := s.(Int64)
			require.Equal(t, off, got.Validity.Offset)
			require.Equal(t, v.Values[off:off+n], got.Values)
			for i := 0; i < n; i++ {
				if IsValid(got.Validity, i) != IsValid(v.Validity, off+i) {
					t.Errorf("Expected validity of %d to match source at %d", i, off+i)
				}
			}
		}
	}
}

func TestSliceBooleanTracksBothOffsets(t *testing.T) {
	v := Boolean{
		Length:   10,
		Validity: &BitsWithOffset{Offset: 1, Data: []byte{0xff, 0xff}},
		Values:   BitsWithOffset{Offset: 5, Data: []byte{0b1010_0000, 0b0000_0010}},
	}
	s, err := Slice(v, 2, 4)
	require.NoError(t, err)
	got := s.(Boolean)
	assert.Equal(t, 4, got.Len())
	assert.Equal(t, 3, got.Validity.Offset)
	assert.Equal(t, 7, got.Values.Offset)
	assert.True(t, got.Values.Get(0))
	assert.False(t, got.Values.Get(1))
	assert.True(t, got.Values.Get(2))
}

func TestSliceBytesKeepsAbsoluteOffsets(t *testing.T) {
	v := Utf8{
		Validity: &BitsWithOffset{Data: []byte{0b0001_0011}},
		Offsets:  []int32{0, 3, 6, 6, 6, 11},
		Data:     []byte("foobarworld"),
	}
	s, err := Slice(v, 1, 4)
	require.NoError(t, err)
	got := s.(Utf8)
	assert.Equal(t, []int32{3, 6, 6, 6, 11}, got.Offsets)
	assert.Equal(t, "bar", got.Value(0))
	assert.Equal(t, "world", got.Value(3))
	assert.False(t, IsValid(got.Validity, 1))
	assert.True(t, IsValid(got.Validity, 3))
}

func TestSliceEmpty(t *testing.T) {
	s, err := Slice(Binary{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	s, err = Slice(List{Elements: Int32{}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestSliceOutOfRange(t *testing.T) {
	_, err := Slice(Int8{Values: []int8{1, 2}}, 1, 2)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))

	_, err = Slice(Int8{Values: []int8{1, 2}}, -1, 1)
	assert.True(t, errs.Is(err, errs.Unsupported))
}

func TestSliceFixedSizeList(t *testing.T) {
	v := FixedSizeList{
		Length:   3,
		N:        2,
		Meta:     datatypes.FieldMeta{Name: "element", Nullable: true},
		Elements: Int16{Values: []int16{1, 2, 3, 4, 5, 6}},
	}
	s, err := Slice(v, 1, 2)
	require.NoError(t, err)
	got := s.(FixedSizeList)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []int16{3, 4, 5, 6}, got.Elements.(Int16).Values)
}

func TestSliceRunEndEncodedUnsupported(t *testing.T) {
	v := RunEndEncoded{
		Meta:    datatypes.DefaultRunEndEncodedMeta(),
		RunEnds: Int32{Values: []int32{2, 5}},
		Values:  Utf8{Offsets: []int32{0, 1, 2}, Data: []byte("ab")},
	}
	_, err := Slice(v, 1, 2)
	assert.True(t, errs.Is(err, errs.Unsupported))
}

func TestDenseUnionChild(t *testing.T) {
	v := Union{
		Types:   []int8{0, 1, 0},
		Offsets: []int32{0, 0, 1},
		Fields: []UnionField{
			{TypeID: 0, Meta: datatypes.FieldMeta{Name: "0"}, View: Int32{Values: []int32{1, 34}}},
			{TypeID: 1, Meta: datatypes.FieldMeta{Name: "1"}, View: Float64{Values: []float64{3.2}}},
		},
	}
	expected := []struct {
		field, row int
	}{{0, 0}, {1, 0}, {0, 1}}
	for i, e := range expected {
		field, row, ok := v.UnionChild(i)
		require.True(t, ok)
		assert.Equal(t, e.field, field, "element %d", i)
		assert.Equal(t, e.row, row, "element %d", i)
	}
	assert.Equal(t, int32(1), v.Fields[0].View.(Int32).Values[0])
	assert.Equal(t, 3.2, v.Fields[1].View.(Float64).Values[0])
	assert.Equal(t, int32(34), v.Fields[0].View.(Int32).Values[1])

	dt := v.DataType().(datatypes.Union)
	assert.Equal(t, datatypes.Dense, dt.Mode)
}

func TestSliceSparseUnionSlicesChildren(t *testing.T) {
	v := Union{
		Types: []int8{0, 5, 0},
		Fields: []UnionField{
			{TypeID: 0, View: Int32{Values: []int32{1, 0, 3}}},
			{TypeID: 5, View: Boolean{Length: 3, Values: BitsWithOffset{Data: []byte{0b010}}}},
		},
	}
	s, err := Slice(v, 1, 2)
	require.NoError(t, err)
	got := s.(Union)
	assert.Nil(t, got.Offsets)
	assert.Equal(t, []int32{0, 3}, got.Fields[0].View.(Int32).Values)
	assert.True(t, got.Fields[1].View.(Boolean).Values.Get(0))
	assert.Equal(t, datatypes.Sparse, got.DataType().(datatypes.Union).Mode)
}

func TestRunIndex(t *testing.T) {
	runEnds := Int64{Values: []int64{2, 3, 7}}
	expected := []int{0, 0, 1, 2, 2, 2, 2}
	for p, k := range expected {
		got, ok := RunIndex(runEnds, p)
		require.True(t, ok, "position %d", p)
		if got != k {
			t.Errorf("Expected run %d for position %d, got %d", k, p, got)
		}
	}
	_, ok := RunIndex(runEnds, 7)
	assert.False(t, ok)
	_, ok = RunIndex(Utf8{Offsets: []int32{0, 1}, Data: []byte("x")}, 0)
	assert.False(t, ok)

	ree := RunEndEncoded{Meta: datatypes.DefaultRunEndEncodedMeta(), RunEnds: runEnds, Values: Int8{Values: []int8{1, 2, 3}}}
	assert.Equal(t, 7, ree.Len())
}

func TestResolveView(t *testing.T) {
	var inline [16]byte
	binary.LittleEndian.PutUint32(inline[0:4], 5)
	copy(inline[4:], "hello")

	var ref [16]byte
	binary.LittleEndian.PutUint32(ref[0:4], 13)
	copy(ref[4:8], "abcd")
	binary.LittleEndian.PutUint32(ref[8:12], 1)
	binary.LittleEndian.PutUint32(ref[12:16], 2)

	buffers := [][]byte{[]byte("unused"), []byte("..abcdefghijklm..")}
	v := Utf8View{Views: [][16]byte{inline, ref}, Buffers: buffers}
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, "hello", v.Value(0))
	assert.Equal(t, "abcdefghijklm", v.Value(1))
}

func TestIntAt(t *testing.T) {
	views := []View{
		Int8{Values: []int8{-3}},
		Int16{Values: []int16{-3}},
		Int32{Values: []int32{-3}},
		Int64{Values: []int64{-3}},
	}
	for _, v := range views {
		got, ok := IntAt(v, 0)
		require.True(t, ok)
		assert.Equal(t, int64(-3), got)
	}
	got, ok := IntAt(UInt16{Values: []uint16{65535}}, 0)
	require.True(t, ok)
	assert.Equal(t, int64(65535), got)

	_, ok = IntAt(Float32{Values: []float32{1}}, 0)
	assert.False(t, ok)
}

func TestDataTypeDerivation(t *testing.T) {
	v := Struct{
		Length: 1,
		Fields: []StructField{
			{Meta: datatypes.FieldMeta{Name: "a", Nullable: true}, View: Timestamp{Unit: datatypes.Millisecond, Timezone: "UTC", Values: []int64{0}}},
			{Meta: datatypes.FieldMeta{Name: "b"}, View: List{
				Offsets:  []int32{0, 1},
				Meta:     datatypes.FieldMeta{Name: "element", Nullable: true},
				Elements: LargeUtf8{Offsets: []int64{0, 1}, Data: []byte("x")},
			}},
		},
	}
	expected := datatypes.Struct{Fields: []datatypes.Field{
		{Name: "a", DataType: datatypes.Timestamp{Unit: datatypes.Millisecond, Timezone: "UTC"}, Nullable: true},
		{Name: "b", DataType: datatypes.List{Elem: datatypes.Field{Name: "element", DataType: datatypes.LargeUtf8, Nullable: true}}},
	}}
	assert.True(t, datatypes.Equal(expected, v.DataType()), "got %s", v.DataType())

	m := Map{
		Offsets: []int32{0, 0},
		Meta:    datatypes.DefaultMapMeta(),
		Keys:    Utf8{Offsets: []int32{0}},
		Values:  Int32{},
	}
	assert.True(t, datatypes.Equal(datatypes.MapOf(datatypes.Utf8, datatypes.Int32, datatypes.DefaultMapMeta()), m.DataType()))
	assert.Equal(t, 1, m.Len())
}

func TestValidityOf(t *testing.T) {
	validity := &BitsWithOffset{Data: []byte{1}}
	assert.Same(t, validity, ValidityOf(Float64{Validity: validity, Values: []float64{1}}))
	assert.Nil(t, ValidityOf(Null{Length: 3}))
	assert.Nil(t, ValidityOf(Union{}))
}
