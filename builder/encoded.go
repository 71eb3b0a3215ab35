package builder

import (
	"math"
	"reflect"

	"github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

func narrow[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64](vals []int64) ([]T, error) {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
		if int64(out[i]) != v || (v < 0) != (out[i] < 0) {
			return nil, errs.Unsupportedf("index %d overflows %T", v, out[i])
		}
	}
	return out, nil
}

// integers builds an integer array of type dt from vals.
func integers(dt datatypes.DataType, vals []int64) (array.Array, error) {
	switch dt {
	case datatypes.Int8:
		v, err := narrow[int8](vals)
		return array.Int8{Values: v}, err
	case datatypes.Int16:
		v, err := narrow[int16](vals)
		return array.Int16{Values: v}, err
	case datatypes.Int32:
		v, err := narrow[int32](vals)
		return array.Int32{Values: v}, err
	case datatypes.Int64:
		v, err := narrow[int64](vals)
		return array.Int64{Values: v}, err
	case datatypes.UInt8:
		v, err := narrow[uint8](vals)
		return array.UInt8{Values: v}, err
	case datatypes.UInt16:
		v, err := narrow[uint16](vals)
		return array.UInt16{Values: v}, err
	case datatypes.UInt32:
		v, err := narrow[uint32](vals)
		return array.UInt32{Values: v}, err
	case datatypes.UInt64:
		v, err := narrow[uint64](vals)
		return array.UInt64{Values: v}, err
	default:
		return nil, errs.Unsupportedf("%v is not an integer type", dt)
	}
}

// memoKey returns a map key identifying v, or false when v cannot be
// compared.
func memoKey(v any) (any, bool) {
	if b, ok := v.([]byte); ok {
		return string(b), true
	}
	if !reflect.TypeOf(v).Comparable() {
		return nil, false
	}
	return v, true
}

type defaultKey struct{}

// dictionaryBuilder pushes each distinct value to the values builder once
// and records its index as the key.
type dictionaryBuilder struct {
	keyType datatypes.DataType
	values  Builder
	sorted  bool
	indices []int64
	memo    map[any]int64
}

func newDictionaryBuilder(dt datatypes.Dictionary) (*dictionaryBuilder, error) {
	values, err := New(datatypes.NewField("values", dt.Value, false))
	if err != nil {
		return nil, err
	}
	return &dictionaryBuilder{
		keyType: dt.Key,
		values:  values,
		sorted:  dt.Sorted,
		memo:    map[any]int64{},
	}, nil
}

func (b *dictionaryBuilder) index(key any, push func() error) error {
	if idx, ok := b.memo[key]; ok {
		b.indices = append(b.indices, idx)
		return nil
	}
	if err := push(); err != nil {
		return err
	}
	idx := int64(b.values.Len() - 1)
	b.memo[key] = idx
	b.indices = append(b.indices, idx)
	return nil
}

func (b *dictionaryBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	key, ok := memoKey(v)
	if !ok {
		return errs.Unsupportedf("dictionary values must be comparable, got %T", v)
	}
	return b.index(key, func() error { return b.values.PushValue(v) })
}

func (b *dictionaryBuilder) PushDefault() error {
	return b.index(defaultKey{}, b.values.PushDefault)
}

func (b *dictionaryBuilder) Len() int { return len(b.indices) }

func (b *dictionaryBuilder) BuildArray() (array.Array, error) {
	indices := b.indices
	b.indices = nil
	b.memo = map[any]int64{}

	values, err := b.values.BuildArray()
	if err != nil {
		return nil, err
	}
	keys, err := integers(b.keyType, indices)
	if err != nil {
		return nil, err
	}
	return array.Dictionary{Keys: keys, Values: values, Sorted: b.sorted}, nil
}

// runEndEncodedBuilder extends the last run while consecutive values are
// deeply equal.
type runEndEncodedBuilder struct {
	meta        datatypes.RunEndEncodedMeta
	runEndsType datatypes.DataType
	values      Builder
	ends        []int64
	last        any
	lastDefault bool
	n           int64
}

func newRunEndEncodedBuilder(dt datatypes.RunEndEncoded) (*runEndEncodedBuilder, error) {
	values, err := New(dt.Values)
	if err != nil {
		return nil, err
	}
	return &runEndEncodedBuilder{
		meta:        datatypes.RunEndEncodedMeta{RunEndsName: dt.RunEnds.Name, Values: dt.Values.Meta()},
		runEndsType: dt.RunEnds.DataType,
		values:      values,
	}, nil
}

// normalize maps nil pointers to nil so that all nulls compare equal.
func normalize(v any) any {
	if isNull(v) {
		return nil
	}
	v, _ = deref(v)
	return v
}

func (b *runEndEncodedBuilder) extend() {
	b.n++
	b.ends[len(b.ends)-1] = b.n
}

func (b *runEndEncodedBuilder) start() {
	b.n++
	b.ends = append(b.ends, b.n)
}

func (b *runEndEncodedBuilder) PushValue(v any) error {
	v = normalize(v)
	if len(b.ends) > 0 && !b.lastDefault && reflect.DeepEqual(b.last, v) {
		b.extend()
		return nil
	}
	if err := b.values.PushValue(v); err != nil {
		return err
	}
	b.last, b.lastDefault = v, false
	b.start()
	return nil
}

func (b *runEndEncodedBuilder) PushDefault() error {
	if len(b.ends) > 0 && b.lastDefault {
		b.extend()
		return nil
	}
	if err := b.values.PushDefault(); err != nil {
		return err
	}
	b.last, b.lastDefault = nil, true
	b.start()
	return nil
}

func (b *runEndEncodedBuilder) Len() int { return int(b.n) }

func (b *runEndEncodedBuilder) BuildArray() (array.Array, error) {
	ends := b.ends
	b.ends, b.last, b.lastDefault, b.n = nil, nil, false, 0

	values, err := b.values.BuildArray()
	if err != nil {
		return nil, err
	}
	runEnds, err := integers(b.runEndsType, ends)
	if err != nil {
		return nil, err
	}
	return array.RunEndEncoded{Meta: b.meta, RunEnds: runEnds, Values: values}, nil
}

type unionBuilder struct {
	dense    bool
	variants []datatypes.UnionVariant
	children []Builder
	index    map[int8]int
	types    []int8
	offsets  []int32
}

func newUnionBuilder(dt datatypes.Union) (*unionBuilder, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	b := &unionBuilder{
		dense:    dt.Mode == datatypes.Dense,
		variants: dt.Variants,
		children: make([]Builder, len(dt.Variants)),
		index:    make(map[int8]int, len(dt.Variants)),
	}
	for i, v := range dt.Variants {
		child, err := New(v.Field)
		if err != nil {
			return nil, err
		}
		b.children[i] = child
		b.index[v.TypeID] = i
	}
	return b, nil
}

// denseOffset narrows the row a dense union value lands on in its child.
func denseOffset(n int) (int32, error) {
	if n < 0 || n > math.MaxInt32 {
		return 0, errs.Unsupportedf("dense union child of %d rows overflows int32 offsets", n)
	}
	return int32(n), nil
}

func (b *unionBuilder) push(c int, push func(Builder) error) error {
	child := b.children[c]
	if b.dense {
		offset, err := denseOffset(child.Len())
		if err != nil {
			return err
		}
		if err := push(child); err != nil {
			return err
		}
		b.offsets = append(b.offsets, offset)
	} else {
		for i, other := range b.children {
			var err error
			if i == c {
				err = push(other)
			} else {
				err = other.PushDefault()
			}
			if err != nil {
				return err
			}
		}
	}
	b.types = append(b.types, b.variants[c].TypeID)
	return nil
}

// PushValue takes a UnionValue naming the variant.
func (b *unionBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	uv, ok := v.(UnionValue)
	if !ok {
		return mismatch(v, "Union")
	}
	c, ok := b.index[uv.TypeID]
	if !ok {
		return errs.Unsupportedf("unknown union type id %d", uv.TypeID)
	}
	return b.push(c, func(child Builder) error { return child.PushValue(uv.Value) })
}

// PushDefault pushes the default of the first variant.
func (b *unionBuilder) PushDefault() error {
	if len(b.children) == 0 {
		return errs.Unsupportedf("union without variants has no default")
	}
	return b.push(0, Builder.PushDefault)
}

func (b *unionBuilder) Len() int { return len(b.types) }

func (b *unionBuilder) BuildArray() (array.Array, error) {
	types, offsets := b.types, b.offsets
	b.types, b.offsets = nil, nil
	if types == nil {
		types = []int8{}
	}
	if b.dense && offsets == nil {
		offsets = []int32{}
	}

	fields := make([]array.UnionField, len(b.children))
	var firstErr error
	for i, child := range b.children {
		a, err := child.BuildArray()
		if err == nil && !b.dense && a.Len() != len(types) {
			err = errs.Unsupportedf("sparse union variant %d has %d rows, want %d", b.variants[i].TypeID, a.Len(), len(types))
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		fields[i] = array.UnionField{TypeID: b.variants[i].TypeID, Meta: b.variants[i].Field.Meta(), Array: a}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return array.Union{Types: types, Offsets: offsets, Fields: fields}, nil
}
