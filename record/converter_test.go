package record

import (
	"context"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/bridge"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/typeinfo"
)

type event struct {
	EntityID  string            `arrow:"entity_id" json:"entity_id"`
	Event     string            `arrow:"event" json:"event"`
	Timestamp float64           `arrow:"timestamp" json:"timestamp"`
	Details   map[string]string `arrow:"details" json:"details,omitempty"`
	Data      []byte            `arrow:"data" json:"data,omitempty"`
	Note      *string           `arrow:"note" json:"note,omitempty"`
	internal  int
}

type header struct {
	Height    uint64
	Created   time.Time
	PrevHash  [32]byte
	Proposers []string
}

func sampleEvents() []event {
	note := "genesis"
	return []event{
		{EntityID: "e1", Event: "create", Timestamp: 1234567890.5, Details: map[string]string{"b": "2", "a": "1"}, Note: &note},
		{EntityID: "e2", Event: "update", Timestamp: 1234567891, Data: []byte{0xde, 0xad}},
		{EntityID: "e3", Event: "delete", Timestamp: 0},
	}
}

func TestConverterSchema(t *testing.T) {
	c, err := NewConverter[event](nil)
	require.NoError(t, err)

	schema := c.Schema()
	require.Equal(t, 6, schema.NumFields())

	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"entity_id", "event", "timestamp", "details", "data", "note"}, names)
	assert.Equal(t, arrow.BinaryTypes.LargeString, schema.Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(2).Type)
	assert.Equal(t, arrow.MAP, schema.Field(3).Type.ID())
	assert.False(t, schema.Field(0).Nullable)
	assert.True(t, schema.Field(5).Nullable)
	assert.Len(t, c.Fields(), 6)
}

func TestRowsToRecord(t *testing.T) {
	c, err := NewConverter[event](nil)
	require.NoError(t, err)

	rec, err := c.RowsToRecord(context.Background(), sampleEvents())
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(6), rec.NumCols())
	require.NoError(t, ValidateSchema(rec, c.Schema()))

	cols, err := c.RecordToColumns(rec)
	require.NoError(t, err)
	require.Len(t, cols, 6)

	ids, ok := cols[0].(carray.LargeUtf8)
	require.True(t, ok, "entity_id column is %T", cols[0])
	assert.Equal(t, []int64{0, 2, 4, 6}, ids.Offsets)
	assert.Equal(t, "e1e2e3", string(ids.Data))

	ts, ok := cols[2].(carray.Float64)
	require.True(t, ok)
	assert.Equal(t, []float64{1234567890.5, 1234567891, 0}, ts.Values)

	details, ok := cols[3].(carray.Map)
	require.True(t, ok)
	assert.Equal(t, []int32{0, 2, 2, 2}, details.Offsets)
	keys, ok := details.Keys.(carray.LargeUtf8)
	require.True(t, ok)
	assert.Equal(t, "ab", string(keys.Data), "map entries are ordered by key")

	notes, ok := cols[5].(carray.LargeUtf8)
	require.True(t, ok)
	assert.Equal(t, []byte{0b001}, notes.Validity)
	assert.Equal(t, "genesis", string(notes.Data))
}

func TestRowsToRecordNestedTypes(t *testing.T) {
	c, err := NewConverter[header](&Config{Options: typeinfo.DefaultOptions(), Concurrency: 2})
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []header{
		{Height: 1, Created: created, PrevHash: [32]byte{1}, Proposers: []string{"a", "b"}},
		{Height: 2, Created: created.Add(time.Second)},
	}
	rec, err := c.RowsToRecord(context.Background(), rows)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, "timestamp[ms, tz=UTC]", rec.Schema().Field(1).Type.String())
	assert.Equal(t, arrow.FIXED_SIZE_BINARY, rec.Column(2).DataType().ID())
	assert.Equal(t, 2, rec.Column(3).Len())

	cols, err := c.RecordToColumns(rec)
	require.NoError(t, err)
	stamps, ok := cols[1].(carray.Timestamp)
	require.True(t, ok)
	assert.Equal(t, []int64{created.UnixMilli(), created.UnixMilli() + 1000}, stamps.Values)
}

func TestRowsToRecordErrors(t *testing.T) {
	c, err := NewConverter[event](nil)
	require.NoError(t, err)

	_, err = c.RowsToRecord(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))

	bad := []event{{EntityID: string([]byte{0xff, 0xfe})}}
	_, err = c.RowsToRecord(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
	assert.Contains(t, err.Error(), "entity_id")
}

func TestRowsToRecordCanceled(t *testing.T) {
	c, err := NewConverter[event](nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := c.RowsToRecord(ctx, sampleEvents())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rec)
}

func TestNewConverterRejectsNonStruct(t *testing.T) {
	_, err := NewConverter[int64](nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))

	_, err = NewConverter[struct{ unexported int }](nil)
	require.Error(t, err)
}

func TestJSONToRecord(t *testing.T) {
	c, err := NewConverter[event](nil)
	require.NoError(t, err)

	data := []byte(`[
		{"entity_id":"e1","event":"create","timestamp":1.5,"details":{"k":"v"}},
		{"entity_id":"e2","event":"update","timestamp":2,"note":"n"}
	]`)
	rec, err := c.JSONToRecord(context.Background(), data)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(2), rec.NumRows())

	_, err = c.JSONToRecord(context.Background(), []byte(`{"entity_id":1}`))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ParseError))

	_, err = c.JSONToRecord(context.Background(), []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Unsupported))
}

func TestValidateSchema(t *testing.T) {
	events, err := NewConverter[event](nil)
	require.NoError(t, err)
	headers, err := NewConverter[header](nil)
	require.NoError(t, err)

	rec, err := events.RowsToRecord(context.Background(), sampleEvents())
	require.NoError(t, err)
	defer rec.Release()

	require.NoError(t, ValidateSchema(rec, events.Schema()))
	assert.Error(t, ValidateSchema(rec, headers.Schema()))
	assert.Error(t, ValidateSchema(nil, events.Schema()))

	renamed := arrow.NewSchema(append([]arrow.Field{{Name: "id", Type: arrow.BinaryTypes.LargeString}},
		events.Schema().Fields()[1:]...), nil)
	err = ValidateSchema(rec, renamed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name mismatch")

	retyped := arrow.NewSchema(append([]arrow.Field{{Name: "entity_id", Type: arrow.BinaryTypes.String}},
		events.Schema().Fields()[1:]...), nil)
	err = ValidateSchema(rec, retyped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")

	_, err = headers.RecordToColumns(rec)
	assert.Error(t, err)
}

func TestRowsToRecordWithAllocator(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	config := DefaultConfig()
	config.Bridge = bridge.NewConverter(&bridge.ConverterConfig{Allocator: mem, Validate: true})

	c, err := NewConverter[event](config)
	require.NoError(t, err)

	rec, err := c.RowsToRecord(context.Background(), sampleEvents())
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.NumRows())
	rec.Release()
}

func TestSchemaHelpers(t *testing.T) {
	fields, err := RowFields[header](typeinfo.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "Height", fields[0].Name)

	schema, err := Schema[header](typeinfo.DefaultOptions())
	require.NoError(t, err)
	back, err := bridge.SchemaFromArrow(schema)
	require.NoError(t, err)
	require.Len(t, back, len(fields))
	for i := range fields {
		assert.True(t, fields[i].Equal(back[i]), "field %d: %v != %v", i, fields[i], back[i])
	}
}
