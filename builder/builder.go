// Package builder appends Go values row by row and produces owned arrays.
//
// New returns a builder for any field. Nullable fields are wrapped so that
// nil values and nil pointers become null slots; the wrapped builder still
// receives a placeholder push for every null so that nested children stay
// aligned. Every child builder receives exactly one push per row of its
// parent, or N pushes for fixed size lists.
//
// A failed push leaves the builder in an unspecified state. BuildArray
// reports misaligned children and always resets the builder.
package builder

import (
	"reflect"

	"github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/bits"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/typeinfo"
)

// Builder accumulates the rows of one array.
type Builder interface {
	// PushValue appends v. Pointers are dereferenced.
	PushValue(v any) error
	// PushDefault appends the type's placeholder value, or a null for
	// nullable fields.
	PushDefault() error
	// BuildArray returns the accumulated array and resets the builder.
	BuildArray() (array.Array, error)
	// Len is the number of rows pushed since the last BuildArray.
	Len() int
}

// UnionValue selects the union variant a value is pushed to.
type UnionValue struct {
	TypeID int8
	Value  any
}

// New returns a builder for field.
func New(field datatypes.Field) (Builder, error) {
	if err := datatypes.Validate(field.DataType); err != nil {
		return nil, errs.Wrap(errs.KindOf(err), err, "field %q", field.Name)
	}
	b, err := newBuilder(field.DataType)
	if err != nil {
		return nil, errs.Wrap(errs.KindOf(err), err, "field %q", field.Name)
	}
	if field.Nullable && carriesValidity(field.DataType) {
		b = &nullableBuilder{inner: b}
	}
	return b, nil
}

// ForType returns a builder for the field typeinfo infers for T.
func ForType[T any](name string, opts typeinfo.Options) (Builder, error) {
	field, err := typeinfo.Infer[T](name, opts)
	if err != nil {
		return nil, err
	}
	return New(field)
}

// carriesValidity reports whether nulls of dt are stored in a validity
// bitmap. Null arrays are all null; unions and run-end-encoded arrays keep
// nulls in their children.
func carriesValidity(dt datatypes.DataType) bool {
	switch dt.(type) {
	case datatypes.Union, datatypes.RunEndEncoded:
		return false
	}
	return dt != datatypes.Null
}

func newBuilder(dt datatypes.DataType) (Builder, error) {
	switch dt := dt.(type) {
	case datatypes.Basic:
		return newBasicBuilder(dt)
	case datatypes.FixedSizeBinary:
		return &fixedSizeBinaryBuilder{width: int(dt.ByteWidth)}, nil
	case datatypes.Timestamp:
		return newTimestampBuilder(dt), nil
	case datatypes.Time32:
		return newPrimitive(func(v any) (int32, error) { return timeOfDay[int32](v, dt.Unit) },
			func(vals []int32) array.Array { return array.Time32{Unit: dt.Unit, Values: vals} }), nil
	case datatypes.Time64:
		return newPrimitive(func(v any) (int64, error) { return timeOfDay[int64](v, dt.Unit) },
			func(vals []int64) array.Array { return array.Time64{Unit: dt.Unit, Values: vals} }), nil
	case datatypes.Duration:
		return newPrimitive(func(v any) (int64, error) { return durationIn(v, dt.Unit) },
			func(vals []int64) array.Array { return array.Duration{Unit: dt.Unit, Values: vals} }), nil
	case datatypes.Interval:
		return newIntervalBuilder(dt)
	case datatypes.Decimal128:
		return newDecimalBuilder(dt)
	case datatypes.Struct:
		return newStructBuilder(dt)
	case datatypes.List:
		return newListBuilder(dt.Elem, func(offsets []int32, elems array.Array) array.Array {
			return array.List{Offsets: offsets, Meta: dt.Elem.Meta(), Elements: elems}
		})
	case datatypes.LargeList:
		return newListBuilder(dt.Elem, func(offsets []int64, elems array.Array) array.Array {
			return array.LargeList{Offsets: offsets, Meta: dt.Elem.Meta(), Elements: elems}
		})
	case datatypes.FixedSizeList:
		return newFixedSizeListBuilder(dt)
	case datatypes.Map:
		return newMapBuilder(dt)
	case datatypes.Dictionary:
		return newDictionaryBuilder(dt)
	case datatypes.RunEndEncoded:
		return newRunEndEncodedBuilder(dt)
	case datatypes.Union:
		return newUnionBuilder(dt)
	default:
		return nil, errs.Unsupportedf("no builder for data type %v", dt)
	}
}

// isNull reports whether v is nil or a nil pointer.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// deref follows pointers and fails on nil.
func deref(v any) (any, error) {
	if v == nil {
		return nil, errs.Unsupportedf("null value for a non-nullable field")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v, nil
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errs.Unsupportedf("null value for a non-nullable field")
		}
		rv = rv.Elem()
	}
	return rv.Interface(), nil
}

func mismatch(v any, want string) error {
	return errs.Unsupportedf("cannot push %T into a %s builder", v, want)
}

type nullableBuilder struct {
	inner    Builder
	validity []byte
	n        int
}

func (b *nullableBuilder) PushValue(v any) error {
	if isNull(v) {
		return b.PushDefault()
	}
	if err := b.inner.PushValue(v); err != nil {
		return err
	}
	bits.Push(&b.validity, &b.n, true)
	return nil
}

func (b *nullableBuilder) PushDefault() error {
	if err := b.inner.PushDefault(); err != nil {
		return err
	}
	bits.Push(&b.validity, &b.n, false)
	return nil
}

func (b *nullableBuilder) Len() int { return b.n }

func (b *nullableBuilder) BuildArray() (array.Array, error) {
	validity, n := b.validity, b.n
	b.validity, b.n = nil, 0

	a, err := b.inner.BuildArray()
	if err != nil {
		return nil, err
	}
	if a.Len() != n {
		return nil, errs.Unsupportedf("validity covers %d rows but the array has %d", n, a.Len())
	}
	if validity == nil {
		validity = []byte{}
	}
	return withValidity(a, validity)
}

// withValidity attaches a validity bitmap to a freshly built array.
func withValidity(a array.Array, validity []byte) (array.Array, error) {
	switch a := a.(type) {
	case array.Boolean:
		a.Validity = validity
		return a, nil
	case array.Int8:
		a.Validity = validity
		return a, nil
	case array.Int16:
		a.Validity = validity
		return a, nil
	case array.Int32:
		a.Validity = validity
		return a, nil
	case array.Int64:
		a.Validity = validity
		return a, nil
	case array.UInt8:
		a.Validity = validity
		return a, nil
	case array.UInt16:
		a.Validity = validity
		return a, nil
	case array.UInt32:
		a.Validity = validity
		return a, nil
	case array.UInt64:
		a.Validity = validity
		return a, nil
	case array.Float16:
		a.Validity = validity
		return a, nil
	case array.Float32:
		a.Validity = validity
		return a, nil
	case array.Float64:
		a.Validity = validity
		return a, nil
	case array.Date32:
		a.Validity = validity
		return a, nil
	case array.Date64:
		a.Validity = validity
		return a, nil
	case array.YearMonthInterval:
		a.Validity = validity
		return a, nil
	case array.DayTimeInterval:
		a.Validity = validity
		return a, nil
	case array.MonthDayNanoInterval:
		a.Validity = validity
		return a, nil
	case array.Time32:
		a.Validity = validity
		return a, nil
	case array.Time64:
		a.Validity = validity
		return a, nil
	case array.Duration:
		a.Validity = validity
		return a, nil
	case array.Timestamp:
		a.Validity = validity
		return a, nil
	case array.Utf8:
		a.Validity = validity
		return a, nil
	case array.LargeUtf8:
		a.Validity = validity
		return a, nil
	case array.Binary:
		a.Validity = validity
		return a, nil
	case array.LargeBinary:
		a.Validity = validity
		return a, nil
	case array.Utf8View:
		a.Validity = validity
		return a, nil
	case array.BinaryView:
		a.Validity = validity
		return a, nil
	case array.FixedSizeBinary:
		a.Validity = validity
		return a, nil
	case array.Decimal128:
		a.Validity = validity
		return a, nil
	case array.Struct:
		a.Validity = validity
		return a, nil
	case array.List:
		a.Validity = validity
		return a, nil
	case array.LargeList:
		a.Validity = validity
		return a, nil
	case array.FixedSizeList:
		a.Validity = validity
		return a, nil
	case array.Map:
		a.Validity = validity
		return a, nil
	case array.Dictionary:
		keys, err := withValidity(a.Keys, validity)
		if err != nil {
			return nil, err
		}
		a.Keys = keys
		return a, nil
	default:
		return nil, errs.Unsupportedf("%v arrays carry no validity", a.DataType())
	}
}
