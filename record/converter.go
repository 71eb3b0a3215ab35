package record

import (
	"context"
	"fmt"
	"runtime"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/bridge"
	"github.com/VanDung-dev/HieraChain-Columnar/builder"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/typeinfo"
)

// Config holds configuration for a Converter.
type Config struct {
	// Options controls how the row type is mapped to columns.
	Options typeinfo.Options

	// Bridge converts the columns. Nil uses a default bridge.Converter.
	Bridge *bridge.Converter

	// Concurrency bounds the number of columns converted at once.
	Concurrency int
}

// DefaultConfig returns the default inference options, a default bridge
// converter and one column per available CPU.
func DefaultConfig() *Config {
	return &Config{
		Options:     typeinfo.DefaultOptions(),
		Bridge:      bridge.NewConverter(nil),
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// Converter turns rows of type T into arrow records. It is safe for
// concurrent use.
type Converter[T any] struct {
	fields      []datatypes.Field
	schema      *arrow.Schema
	bridge      *bridge.Converter
	concurrency int
}

// NewConverter creates a Converter for the row type T. A nil config uses
// the defaults.
func NewConverter[T any](config *Config) (*Converter[T], error) {
	if config == nil {
		config = DefaultConfig()
	}
	fields, err := RowFields[T](config.Options)
	if err != nil {
		return nil, err
	}
	schema, err := bridge.SchemaToArrow(fields)
	if err != nil {
		return nil, err
	}

	conv := config.Bridge
	if conv == nil {
		conv = bridge.NewConverter(nil)
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Converter[T]{fields: fields, schema: schema, bridge: conv, concurrency: concurrency}, nil
}

// Schema returns the arrow schema of the records produced.
func (c *Converter[T]) Schema() *arrow.Schema { return c.schema }

// Fields returns the column fields.
func (c *Converter[T]) Fields() []datatypes.Field { return c.fields }

// Columns builds one owned array per column from rows.
func (c *Converter[T]) Columns(rows []T) ([]carray.Array, error) {
	b, err := builder.New(datatypes.NewField("row", datatypes.Struct{Fields: c.fields}, false))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := b.PushValue(row); err != nil {
			return nil, errs.Wrap(errs.KindOf(err), err, "row %d", i)
		}
	}
	a, err := b.BuildArray()
	if err != nil {
		return nil, err
	}

	st := a.(carray.Struct)
	cols := make([]carray.Array, len(st.Fields))
	for i, f := range st.Fields {
		cols[i] = f.Array
	}
	return cols, nil
}

// RowsToRecord converts rows into a record. The caller releases it.
func (c *Converter[T]) RowsToRecord(ctx context.Context, rows []T) (arrow.Record, error) {
	if len(rows) == 0 {
		return nil, errs.Unsupportedf("empty rows slice")
	}
	cols, err := c.Columns(rows)
	if err != nil {
		return nil, err
	}

	arrs := make([]arrow.Array, len(cols))
	release := func() {
		for _, arr := range arrs {
			if arr != nil {
				arr.Release()
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, col := range cols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			arr, err := c.bridge.ToArrow(col)
			if err != nil {
				return errs.Wrap(errs.KindOf(err), err, "column %q", c.fields[i].Name)
			}
			arrs[i] = arr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		release()
		return nil, err
	}
	defer release()

	return newRecord(c.schema, arrs, int64(len(rows)))
}

// newRecord assembles the record; the runtime panics on a column that
// does not match the schema.
func newRecord(schema *arrow.Schema, cols []arrow.Array, rows int64) (rec arrow.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Arrow(fmt.Errorf("%v", r), "failed to assemble record")
		}
	}()
	return array.NewRecord(schema, cols, rows), nil
}

// JSONToRecord decodes a JSON array of rows and converts it.
func (c *Converter[T]) JSONToRecord(ctx context.Context, data []byte) (arrow.Record, error) {
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errs.Wrap(errs.ParseError, err, "failed to unmarshal rows")
	}
	return c.RowsToRecord(ctx, rows)
}

// RecordToColumns validates record against the schema and copies its
// columns into owned arrays.
func (c *Converter[T]) RecordToColumns(record arrow.Record) ([]carray.Array, error) {
	if err := ValidateSchema(record, c.schema); err != nil {
		return nil, err
	}
	cols := make([]carray.Array, record.NumCols())
	for i := range cols {
		col, err := c.bridge.FromArrow(record.Column(i))
		if err != nil {
			return nil, errs.Wrap(errs.KindOf(err), err, "column %q", c.fields[i].Name)
		}
		cols[i] = col
	}
	return cols, nil
}
