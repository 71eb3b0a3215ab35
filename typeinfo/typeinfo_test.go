package typeinfo

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

type block struct {
	Height    uint64
	Hash      [32]byte `arrow:"hash"`
	Parent    *[32]byte
	Miner     string `arrow:"miner"`
	Txs       []transaction
	Tags      map[string]int32
	CreatedAt time.Time
	internal  int
	Skipped   bool `arrow:"-"`
}

type transaction struct {
	ID     uuid.UUID `arrow:"id"`
	Amount decimal.Decimal
	Memo   *string
}

type color int8

func (color) ArrowField(ctx Context) (datatypes.Field, error) {
	return datatypes.NewField("ignored", datatypes.Dictionary{Key: datatypes.Int8, Value: ctx.Options().StringType}, false), nil
}

type node struct {
	Value int32
	Next  *node
}

type pointerInferer struct{ A int }

func (*pointerInferer) ArrowField(ctx Context) (datatypes.Field, error) {
	return datatypes.NewField(ctx.Name(), datatypes.Utf8, true), nil
}

func amountOverride() map[string]datatypes.Field {
	return map[string]datatypes.Field{
		"$.Txs.element.Amount": datatypes.NewField("x", datatypes.Decimal128{Precision: 18, Scale: 2}, false),
	}
}

func TestInferPrimitives(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want datatypes.DataType
	}{
		{"bool", reflect.TypeFor[bool](), datatypes.Boolean},
		{"int8", reflect.TypeFor[int8](), datatypes.Int8},
		{"int16", reflect.TypeFor[int16](), datatypes.Int16},
		{"int32", reflect.TypeFor[int32](), datatypes.Int32},
		{"int", reflect.TypeFor[int](), datatypes.Int64},
		{"int64", reflect.TypeFor[int64](), datatypes.Int64},
		{"uint8", reflect.TypeFor[uint8](), datatypes.UInt8},
		{"uint16", reflect.TypeFor[uint16](), datatypes.UInt16},
		{"uint32", reflect.TypeFor[uint32](), datatypes.UInt32},
		{"uint", reflect.TypeFor[uint](), datatypes.UInt64},
		{"float16", reflect.TypeFor[float16.Float16](), datatypes.Float16},
		{"float32", reflect.TypeFor[float32](), datatypes.Float32},
		{"float64", reflect.TypeFor[float64](), datatypes.Float64},
		{"string", reflect.TypeFor[string](), datatypes.LargeUtf8},
		{"bytes", reflect.TypeFor[[]byte](), datatypes.Binary},
		{"duration", reflect.TypeFor[time.Duration](), datatypes.Duration{Unit: datatypes.Nanosecond}},
		{"time", reflect.TypeFor[time.Time](), datatypes.Timestamp{Unit: datatypes.Millisecond, Timezone: "UTC"}},
		{"fixed bytes", reflect.TypeFor[[4]byte](), datatypes.FixedSizeBinary{ByteWidth: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := InferField(tt.typ, "col", DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, "col", f.Name)
			assert.False(t, f.Nullable)
			assert.True(t, datatypes.Equal(tt.want, f.DataType), "want %v, got %v", tt.want, f.DataType)
		})
	}
}

func TestInferPointerIsNullable(t *testing.T) {
	f, err := Infer[*int16]("n", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, f.Nullable)
	assert.Equal(t, datatypes.Int16, f.DataType)

	f, err = Infer[struct{}]("unit", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, f.Nullable)
	assert.Equal(t, datatypes.Null, f.DataType)
}

func TestInferOptions(t *testing.T) {
	opts := Options{StringType: datatypes.Utf8, LargeList: true}

	f, err := Infer[[]string]("names", opts)
	require.NoError(t, err)
	want := datatypes.LargeList{Elem: datatypes.NewField("element", datatypes.Utf8, false)}
	assert.True(t, datatypes.Equal(want, f.DataType), "got %v", f.DataType)

	f, err = Infer[[]byte]("raw", opts)
	require.NoError(t, err)
	assert.Equal(t, datatypes.LargeBinary, f.DataType)

	_, err = Infer[string]("s", Options{StringType: datatypes.Utf8View})
	require.Error(t, err)
	assert.Equal(t, errs.Unsupported, errs.KindOf(err))

	_, err = Infer[string]("s", Options{})
	require.Error(t, err)
}

func TestInferStruct(t *testing.T) {
	opts := DefaultOptions()
	opts.Overrides = amountOverride()

	f, err := Infer[block]("block", opts)
	require.NoError(t, err)

	tx := datatypes.Struct{Fields: []datatypes.Field{
		{
			Name:     "id",
			DataType: datatypes.FixedSizeBinary{ByteWidth: 16},
			Metadata: map[string]string{ExtensionNameKey: UUIDExtensionName, ExtensionMetadataKey: ""},
		},
		datatypes.NewField("Amount", datatypes.Decimal128{Precision: 18, Scale: 2}, false),
		datatypes.NewField("Memo", datatypes.LargeUtf8, true),
	}}
	want := datatypes.NewField("block", datatypes.Struct{Fields: []datatypes.Field{
		datatypes.NewField("Height", datatypes.UInt64, false),
		datatypes.NewField("hash", datatypes.FixedSizeBinary{ByteWidth: 32}, false),
		datatypes.NewField("Parent", datatypes.FixedSizeBinary{ByteWidth: 32}, true),
		datatypes.NewField("miner", datatypes.LargeUtf8, false),
		datatypes.NewField("Txs", datatypes.List{Elem: datatypes.NewField("element", tx, false)}, false),
		datatypes.NewField("Tags", datatypes.MapOf(datatypes.LargeUtf8, datatypes.Int32, mapMetaWithValue(false)), false),
		datatypes.NewField("CreatedAt", datatypes.Timestamp{Unit: datatypes.Millisecond, Timezone: "UTC"}, false),
	}}, false)

	assert.True(t, want.Equal(f), "want %s\ngot  %s", want, f)
}

func mapMetaWithValue(nullable bool) datatypes.MapMeta {
	meta := datatypes.DefaultMapMeta()
	meta.Values.Nullable = nullable
	return meta
}

func TestInferDecimalNeedsOverride(t *testing.T) {
	_, err := Infer[block]("block", DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, errs.Unsupported, errs.KindOf(err))
	assert.Contains(t, err.Error(), "$.Txs.element.Amount")
}

func TestInferOverrideRebindsName(t *testing.T) {
	opts := DefaultOptions()
	opts.Overrides = map[string]datatypes.Field{
		"$": datatypes.NewField("other", datatypes.Utf8View, true),
	}
	f, err := Infer[int]("value", opts)
	require.NoError(t, err)
	assert.True(t, datatypes.NewField("value", datatypes.Utf8View, true).Equal(f), "got %s", f)
}

func TestInferCollections(t *testing.T) {
	f, err := Infer[[3]*float64]("xyz", DefaultOptions())
	require.NoError(t, err)
	want := datatypes.FixedSizeList{Elem: datatypes.NewField("element", datatypes.Float64, true), N: 3}
	assert.True(t, datatypes.Equal(want, f.DataType), "got %v", f.DataType)

	f, err = Infer[map[int64]*string]("m", DefaultOptions())
	require.NoError(t, err)
	wantMap := datatypes.MapOf(datatypes.Int64, datatypes.LargeUtf8, mapMetaWithValue(true))
	assert.True(t, datatypes.Equal(wantMap, f.DataType), "got %v", f.DataType)

	_, err = Infer[map[*string]int]("m", DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, errs.Unsupported, errs.KindOf(err))
}

func TestInferUsesInferer(t *testing.T) {
	f, err := Infer[color]("color", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "color", f.Name)
	assert.True(t, datatypes.Equal(datatypes.Dictionary{Key: datatypes.Int8, Value: datatypes.LargeUtf8}, f.DataType))

	f, err = Infer[pointerInferer]("p", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, datatypes.Utf8, f.DataType)
	assert.True(t, f.Nullable)

	f, err = Infer[*color]("c", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, f.Nullable)
}

func TestInferRejectsUnsupportedTypes(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeFor[complex64](),
		reflect.TypeFor[chan int](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[any](),
		reflect.TypeFor[uintptr](),
		reflect.TypeFor[node](),
		reflect.TypeFor[struct {
			A int `arrow:"x"`
			B int `arrow:"x"`
		}](),
		nil,
	} {
		_, err := InferField(typ, "bad", DefaultOptions())
		require.Error(t, err, "%v", typ)
		assert.Equal(t, errs.Unsupported, errs.KindOf(err), "%v", typ)
	}
}

func TestContextPaths(t *testing.T) {
	opts := DefaultOptions()
	ctx := Context{path: RootPath, name: "root", opts: &opts, seen: map[reflect.Type]bool{}}
	child := ctx.Nest("items").Nest("element")
	assert.Equal(t, "$.items.element", child.Path())
	assert.Equal(t, "element", child.Name())
	assert.Equal(t, datatypes.LargeUtf8, child.Options().StringType)
}

func TestFieldName(t *testing.T) {
	typ := reflect.TypeFor[block]()
	for _, tc := range []struct {
		field string
		name  string
		ok    bool
	}{
		{"Height", "Height", true},
		{"Hash", "hash", true},
		{"internal", "", false},
		{"Skipped", "", false},
	} {
		sf, found := typ.FieldByName(tc.field)
		require.True(t, found)
		name, ok := FieldName(sf)
		assert.Equal(t, tc.ok, ok, tc.field)
		assert.Equal(t, tc.name, name, tc.field)
	}
}
