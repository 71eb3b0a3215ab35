package builder

import (
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"github.com/x448/float16"

	"github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/bits"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/types"
)

const (
	secondsPerDay = 86400
	millisPerDay  = secondsPerDay * 1000
)

func newBasicBuilder(dt datatypes.Basic) (Builder, error) {
	switch dt {
	case datatypes.Null:
		return &nullBuilder{}, nil
	case datatypes.Boolean:
		return &booleanBuilder{}, nil
	case datatypes.Int8:
		return newPrimitive(signed[int8], func(v []int8) array.Array { return array.Int8{Values: v} }), nil
	case datatypes.Int16:
		return newPrimitive(signed[int16], func(v []int16) array.Array { return array.Int16{Values: v} }), nil
	case datatypes.Int32:
		return newPrimitive(signed[int32], func(v []int32) array.Array { return array.Int32{Values: v} }), nil
	case datatypes.Int64:
		return newPrimitive(signed[int64], func(v []int64) array.Array { return array.Int64{Values: v} }), nil
	case datatypes.UInt8:
		return newPrimitive(unsigned[uint8], func(v []uint8) array.Array { return array.UInt8{Values: v} }), nil
	case datatypes.UInt16:
		return newPrimitive(unsigned[uint16], func(v []uint16) array.Array { return array.UInt16{Values: v} }), nil
	case datatypes.UInt32:
		return newPrimitive(unsigned[uint32], func(v []uint32) array.Array { return array.UInt32{Values: v} }), nil
	case datatypes.UInt64:
		return newPrimitive(unsigned[uint64], func(v []uint64) array.Array { return array.UInt64{Values: v} }), nil
	case datatypes.Float16:
		return newPrimitive(half, func(v []float16.Float16) array.Array { return array.Float16{Values: v} }), nil
	case datatypes.Float32:
		return newPrimitive(float[float32], func(v []float32) array.Array { return array.Float32{Values: v} }), nil
	case datatypes.Float64:
		return newPrimitive(float[float64], func(v []float64) array.Array { return array.Float64{Values: v} }), nil
	case datatypes.Date32:
		return newPrimitive(date32, func(v []int32) array.Array { return array.Date32{Values: v} }), nil
	case datatypes.Date64:
		return newPrimitive(date64, func(v []int64) array.Array { return array.Date64{Values: v} }), nil
	case datatypes.Utf8:
		return newBytesBuilder(true, func(b bytesPayload[int32]) array.Array {
			return array.Utf8{Offsets: b.offsets, Data: b.data}
		}), nil
	case datatypes.LargeUtf8:
		return newBytesBuilder(true, func(b bytesPayload[int64]) array.Array {
			return array.LargeUtf8{Offsets: b.offsets, Data: b.data}
		}), nil
	case datatypes.Binary:
		return newBytesBuilder(false, func(b bytesPayload[int32]) array.Array {
			return array.Binary{Offsets: b.offsets, Data: b.data}
		}), nil
	case datatypes.LargeBinary:
		return newBytesBuilder(false, func(b bytesPayload[int64]) array.Array {
			return array.LargeBinary{Offsets: b.offsets, Data: b.data}
		}), nil
	case datatypes.Utf8View:
		return &viewBuilder{utf8: true}, nil
	case datatypes.BinaryView:
		return &viewBuilder{}, nil
	default:
		return nil, errs.Unsupportedf("no builder for data type %v", dt)
	}
}

type nullBuilder struct{ n int }

func (b *nullBuilder) PushValue(v any) error {
	if !isNull(v) {
		if _, ok := v.(struct{}); !ok {
			return mismatch(v, "Null")
		}
	}
	b.n++
	return nil
}

func (b *nullBuilder) PushDefault() error { b.n++; return nil }
func (b *nullBuilder) Len() int           { return b.n }

func (b *nullBuilder) BuildArray() (array.Array, error) {
	n := b.n
	b.n = 0
	return array.Null{Length: n}, nil
}

type booleanBuilder struct {
	values []byte
	n      int
}

func (b *booleanBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return mismatch(v, "Boolean")
	}
	bits.Push(&b.values, &b.n, rv.Bool())
	return nil
}

func (b *booleanBuilder) PushDefault() error {
	bits.Push(&b.values, &b.n, false)
	return nil
}

func (b *booleanBuilder) Len() int { return b.n }

func (b *booleanBuilder) BuildArray() (array.Array, error) {
	a := array.Boolean{Length: b.n, Values: b.values}
	b.values, b.n = nil, 0
	return a, nil
}

// primitiveBuilder appends fixed width values produced by conv.
type primitiveBuilder[T any] struct {
	values []T
	conv   func(any) (T, error)
	build  func([]T) array.Array
}

func newPrimitive[T any](conv func(any) (T, error), build func([]T) array.Array) *primitiveBuilder[T] {
	return &primitiveBuilder[T]{conv: conv, build: build}
}

func (b *primitiveBuilder[T]) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	x, err := b.conv(v)
	if err != nil {
		return err
	}
	b.values = append(b.values, x)
	return nil
}

func (b *primitiveBuilder[T]) PushDefault() error {
	var zero T
	b.values = append(b.values, zero)
	return nil
}

func (b *primitiveBuilder[T]) Len() int { return len(b.values) }

func (b *primitiveBuilder[T]) BuildArray() (array.Array, error) {
	values := b.values
	if values == nil {
		values = []T{}
	}
	b.values = nil
	return b.build(values), nil
}

func overflow(v any, want string) error {
	return errs.Unsupportedf("value %v overflows %s", v, want)
}

func signed[T int8 | int16 | int32 | int64](v any) (T, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x := rv.Int()
		if int64(T(x)) != x {
			return 0, overflow(v, reflect.TypeFor[T]().String())
		}
		return T(x), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		x := rv.Uint()
		if x > math.MaxInt64 || int64(T(x)) != int64(x) {
			return 0, overflow(v, reflect.TypeFor[T]().String())
		}
		return T(x), nil
	default:
		return 0, mismatch(v, reflect.TypeFor[T]().String())
	}
}

func unsigned[T uint8 | uint16 | uint32 | uint64](v any) (T, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x := rv.Int()
		if x < 0 || uint64(T(x)) != uint64(x) {
			return 0, overflow(v, reflect.TypeFor[T]().String())
		}
		return T(x), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		x := rv.Uint()
		if uint64(T(x)) != x {
			return 0, overflow(v, reflect.TypeFor[T]().String())
		}
		return T(x), nil
	default:
		return 0, mismatch(v, reflect.TypeFor[T]().String())
	}
}

func float[T float32 | float64](v any) (T, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return T(rv.Float()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return T(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return T(rv.Uint()), nil
	default:
		return 0, mismatch(v, reflect.TypeFor[T]().String())
	}
}

func half(v any) (float16.Float16, error) {
	if h, ok := v.(float16.Float16); ok {
		return h, nil
	}
	f, err := float[float32](v)
	if err != nil {
		return 0, mismatch(v, "Float16")
	}
	return float16.Fromfloat32(f), nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func date32(v any) (int32, error) {
	if t, ok := v.(time.Time); ok {
		days := floorDiv(t.Unix(), secondsPerDay)
		if days < math.MinInt32 || days > math.MaxInt32 {
			return 0, overflow(v, "Date32")
		}
		return int32(days), nil
	}
	return signed[int32](v)
}

func date64(v any) (int64, error) {
	if t, ok := v.(time.Time); ok {
		return floorDiv(t.UnixMilli(), millisPerDay) * millisPerDay, nil
	}
	return signed[int64](v)
}

func unitDuration(u datatypes.TimeUnit) time.Duration {
	switch u {
	case datatypes.Second:
		return time.Second
	case datatypes.Millisecond:
		return time.Millisecond
	case datatypes.Microsecond:
		return time.Microsecond
	default:
		return time.Nanosecond
	}
}

func newTimestampBuilder(dt datatypes.Timestamp) Builder {
	conv := func(v any) (int64, error) {
		t, ok := v.(time.Time)
		if !ok {
			return signed[int64](v)
		}
		switch dt.Unit {
		case datatypes.Second:
			return t.Unix(), nil
		case datatypes.Millisecond:
			return t.UnixMilli(), nil
		case datatypes.Microsecond:
			return t.UnixMicro(), nil
		default:
			return t.UnixNano(), nil
		}
	}
	return newPrimitive(conv, func(vals []int64) array.Array {
		return array.Timestamp{Unit: dt.Unit, Timezone: dt.Timezone, Values: vals}
	})
}

// timeOfDay accepts a time.Duration since midnight or a raw count of unit.
func timeOfDay[T int32 | int64](v any, unit datatypes.TimeUnit) (T, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return signed[T](v)
	}
	if d < 0 || d >= 24*time.Hour {
		return 0, errs.Unsupportedf("time of day %v is outside one day", d)
	}
	return T(d / unitDuration(unit)), nil
}

func durationIn(v any, unit datatypes.TimeUnit) (int64, error) {
	if d, ok := v.(time.Duration); ok {
		return int64(d / unitDuration(unit)), nil
	}
	return signed[int64](v)
}

func newIntervalBuilder(dt datatypes.Interval) (Builder, error) {
	switch dt.Unit {
	case datatypes.YearMonth:
		return newPrimitive(signed[int32], func(v []int32) array.Array {
			return array.YearMonthInterval{Values: v}
		}), nil
	case datatypes.DayTime:
		conv := func(v any) (types.DayTimeInterval, error) {
			if x, ok := v.(types.DayTimeInterval); ok {
				return x, nil
			}
			return types.DayTimeInterval{}, mismatch(v, "DayTime interval")
		}
		return newPrimitive(conv, func(v []types.DayTimeInterval) array.Array {
			return array.DayTimeInterval{Values: v}
		}), nil
	case datatypes.MonthDayNano:
		conv := func(v any) (types.MonthDayNanoInterval, error) {
			if x, ok := v.(types.MonthDayNanoInterval); ok {
				return x, nil
			}
			return types.MonthDayNanoInterval{}, mismatch(v, "MonthDayNano interval")
		}
		return newPrimitive(conv, func(v []types.MonthDayNanoInterval) array.Array {
			return array.MonthDayNanoInterval{Values: v}
		}), nil
	default:
		return nil, errs.Unsupportedf("invalid interval unit %d", int(dt.Unit))
	}
}

// newDecimalBuilder accepts decimal.Decimal, types.Int128 holding the
// unscaled value, decimal strings, floats and integers. Values are rounded
// to the scale and must fit in the precision.
func newDecimalBuilder(dt datatypes.Decimal128) (Builder, error) {
	if dt.Precision < 1 || dt.Precision > 38 {
		return nil, errs.Unsupportedf("decimal precision %d is outside 1..=38", dt.Precision)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(dt.Precision)), nil)

	conv := func(v any) (types.Int128, error) {
		var d decimal.Decimal
		switch x := v.(type) {
		case types.Int128:
			if x.Big().CmpAbs(limit) >= 0 {
				return types.Int128{}, overflow(x, dt.String())
			}
			return x, nil
		case decimal.Decimal:
			d = x
		case string:
			parsed, err := decimal.NewFromString(x)
			if err != nil {
				return types.Int128{}, errs.Wrap(errs.Unsupported, err, "cannot parse %q as a decimal", x)
			}
			d = parsed
		case float32:
			d = decimal.NewFromFloat32(x)
		case float64:
			d = decimal.NewFromFloat(x)
		default:
			i, err := signed[int64](v)
			if err != nil {
				return types.Int128{}, mismatch(v, dt.String())
			}
			d = decimal.NewFromInt(i)
		}
		unscaled, ok := types.Int128FromDecimal(d, dt.Scale)
		if !ok || unscaled.Big().CmpAbs(limit) >= 0 {
			return types.Int128{}, overflow(d, dt.String())
		}
		return unscaled, nil
	}
	return newPrimitive(conv, func(v []types.Int128) array.Array {
		return array.Decimal128{Precision: dt.Precision, Scale: dt.Scale, Values: v}
	}), nil
}
