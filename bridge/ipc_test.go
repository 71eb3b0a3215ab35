package bridge

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/types"
)

// serializeToIPC writes one record in the IPC stream format.
func serializeToIPC(record arrow.Record) ([]byte, error) {
	var buf bytes.Buffer

	writer := ipc.NewWriter(&buf, ipc.WithSchema(record.Schema()))
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write record: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return buf.Bytes(), nil
}

// deserializeFromIPC reads the first record of an IPC stream. The caller
// releases it.
func deserializeFromIPC(data []byte, mem memory.Allocator) (arrow.Record, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if reader.Err() != nil {
			return nil, reader.Err()
		}
		return nil, fmt.Errorf("no records in IPC data")
	}

	record := reader.Record()
	record.Retain()
	return record, nil
}

func ipcColumns() []carray.Array {
	return []carray.Array{
		carray.Int64{Validity: []byte{0b101}, Values: []int64{1, 0, 3}},
		carray.Utf8{Offsets: []int32{0, 5, 5, 10}, Validity: []byte{0b101}, Data: []byte("blockchain")},
		carray.Struct{
			Length: 3,
			Fields: []carray.StructField{
				{Meta: datatypes.FieldMeta{Name: "height"}, Array: carray.UInt32{Values: []uint32{10, 11, 12}}},
				{Meta: datatypes.FieldMeta{Name: "hash", Nullable: true}, Array: carray.FixedSizeBinary{N: 2, Data: []byte{1, 2, 3, 4, 5, 6}}},
			},
		},
		carray.List{
			Offsets:  []int32{0, 1, 1, 3},
			Meta:     datatypes.FieldMeta{Name: "element", Nullable: true},
			Elements: carray.Float32{Values: []float32{1, 2, 3}},
		},
		carray.Map{
			Offsets: []int32{0, 1, 2, 2},
			Meta:    datatypes.DefaultMapMeta(),
			Keys:    carray.Utf8{Offsets: []int32{0, 1, 2}, Data: []byte("ab")},
			Values:  carray.Int8{Values: []int8{1, 2}},
		},
		carray.Union{
			Types:   []int8{0, 1, 0},
			Offsets: []int32{0, 0, 1},
			Fields: []carray.UnionField{
				{TypeID: 0, Meta: datatypes.FieldMeta{Name: "0"}, Array: carray.Int32{Values: []int32{1, 34}}},
				{TypeID: 1, Meta: datatypes.FieldMeta{Name: "1"}, Array: carray.Float64{Values: []float64{3.2}}},
			},
		},
		carray.Dictionary{
			Keys:   carray.Int16{Values: []int16{1, 0, 1}},
			Values: carray.Utf8{Offsets: []int32{0, 1, 2}, Data: []byte("xy")},
		},
		carray.Decimal128{Precision: 18, Scale: 3, Values: []types.Int128{
			types.Int128FromInt64(1500), types.Int128FromInt64(-2), {Lo: 1, Hi: 1},
		}},
	}
}

func TestIPCRoundTrip(t *testing.T) {
	want := ipcColumns()
	cols := make([]arrow.Array, 0, len(want))
	fields := make([]arrow.Field, 0, len(want))
	for i, a := range ipcColumns() {
		arr, err := ToArrow(a)
		require.NoError(t, err, "%s", want[i].DataType())
		defer arr.Release()
		cols = append(cols, arr)
		fields = append(fields, arrow.Field{Name: fmt.Sprintf("c%d", i), Type: arr.DataType(), Nullable: true})
	}

	record := array.NewRecord(arrow.NewSchema(fields, nil), cols, 3)
	defer record.Release()

	data, err := serializeToIPC(record)
	require.NoError(t, err)

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	read, err := deserializeFromIPC(data, mem)
	require.NoError(t, err)
	defer read.Release()

	require.EqualValues(t, len(want), read.NumCols())
	for i := range want {
		got, err := FromArrow(read.Column(i))
		require.NoError(t, err, "%s", want[i].DataType())
		if diff := cmp.Diff(want[i], got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("column %d (%s) mismatch (-want +got):\n%s", i, want[i].DataType(), diff)
		}
	}
}
