package bridge

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/monitoring"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

func TestDefaultConverterConfig(t *testing.T) {
	config := DefaultConverterConfig()
	require.NotNil(t, config)
	assert.Nil(t, config.Allocator)
	assert.NotNil(t, config.Logger)
	assert.Nil(t, config.Metrics)
	assert.False(t, config.Validate)

	c := NewConverter(nil)
	arr, err := c.ToArrow(carray.Int8{Values: []int8{1}})
	require.NoError(t, err)
	arr.Release()
}

func TestConverterRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics("columnar", reg)
	c := NewConverter(&ConverterConfig{Metrics: metrics})

	arr, err := c.ToArrow(carray.Int32{Values: []int32{1, 2, 3}})
	require.NoError(t, err)
	defer arr.Release()

	v, err := c.ViewOf(arr)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, v.(view.Int32).Values)

	_, err = c.ToArrow(carray.FixedSizeBinary{N: 3, Data: []byte{1}})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConversionsTotal.WithLabelValues("to_arrow", "Int32")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConversionsTotal.WithLabelValues("from_arrow", "Int32")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConversionErrors.WithLabelValues("to_arrow", "Unsupported")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.ConversionLatency))
}

func TestConverterLogs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConverter(&ConverterConfig{Logger: log.NewLogfmtLogger(&buf)})

	arr, err := c.ToArrow(carray.Utf8{Offsets: []int32{0, 2}, Data: []byte("hi")})
	require.NoError(t, err)
	arr.Release()
	_, err = c.ToArrow(carray.Struct{Length: 1, Fields: []carray.StructField{{Array: carray.Int8{}}}})
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=debug")
	assert.Contains(t, lines[0], "type=Utf8")
	assert.Contains(t, lines[0], "len=1")
	assert.Contains(t, lines[1], "level=warn")
	assert.Contains(t, lines[1], "msg=\"conversion failed\"")
}

func TestConverterValidatesRuntimeArrays(t *testing.T) {
	good := carray.Union{
		Types:   []int8{0, 0},
		Offsets: []int32{0, 0},
		Fields: []carray.UnionField{
			{TypeID: 0, Meta: datatypes.FieldMeta{Name: "0"}, Array: carray.Int8{Values: []int8{1}}},
		},
	}
	plain, err := ToArrow(good)
	require.NoError(t, err)
	defer plain.Release()

	// Same runtime data with the second offset pointing past the child.
	d := plain.Data()
	offsets := memory.NewBufferBytes(arrow.Int32Traits.CastToBytes([]int32{0, 5}))
	badData := array.NewData(d.DataType(), d.Len(), []*memory.Buffer{nil, d.Buffers()[1], offsets}, d.Children(), 0, 0)
	defer badData.Release()
	bad := array.MakeFromData(badData)
	defer bad.Release()

	c := NewConverter(&ConverterConfig{Validate: true})
	_, err = c.FromArrow(bad)
	require.Error(t, err)
	assert.Equal(t, errs.ArrowError, errs.KindOf(err))

	_, err = c.ViewOf(bad)
	require.Error(t, err)
	assert.Equal(t, errs.ArrowError, errs.KindOf(err))

	_, err = NewConverter(nil).FromArrow(bad)
	assert.NoError(t, err, "runtime validation is opt-in on the read path")
}

func TestConverterUsesAllocator(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	c := NewConverter(&ConverterConfig{Allocator: mem, Logger: log.NewNopLogger(), Validate: true})
	for _, a := range sampleArrays() {
		arr, err := c.ToArrow(a)
		require.NoError(t, err)

		b, err := c.Borrow(arr)
		require.NoError(t, err)
		arr.Release()

		owned, err := c.FromArrow(b.arr)
		require.NoError(t, err)
		assert.Equal(t, b.View.Len(), owned.Len())
		b.Release()
	}
}
