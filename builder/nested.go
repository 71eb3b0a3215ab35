package builder

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/typeinfo"
)

// structBuilder accepts Go structs, matched to fields by their arrow tag
// or name, and maps with string keys. Fields missing from the value get
// their default.
type structBuilder struct {
	fields   []datatypes.Field
	children []Builder
	index    map[string]int
	layouts  map[reflect.Type][]int
	n        int
}

func newStructBuilder(dt datatypes.Struct) (*structBuilder, error) {
	b := &structBuilder{
		fields:   dt.Fields,
		children: make([]Builder, len(dt.Fields)),
		index:    make(map[string]int, len(dt.Fields)),
		layouts:  map[reflect.Type][]int{},
	}
	for i, f := range dt.Fields {
		child, err := New(f)
		if err != nil {
			return nil, err
		}
		b.children[i] = child
		b.index[f.Name] = i
	}
	return b, nil
}

// layout maps each child to the index of the struct field that feeds it,
// or -1.
func (b *structBuilder) layout(t reflect.Type) []int {
	if l, ok := b.layouts[t]; ok {
		return l
	}
	l := make([]int, len(b.children))
	for i := range l {
		l[i] = -1
	}
	for i := 0; i < t.NumField(); i++ {
		name, ok := typeinfo.FieldName(t.Field(i))
		if !ok {
			continue
		}
		if c, ok := b.index[name]; ok {
			l[c] = i
		}
	}
	b.layouts[t] = l
	return l
}

func (b *structBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Struct:
		for c, i := range b.layout(rv.Type()) {
			if i < 0 {
				err = b.children[c].PushDefault()
			} else {
				err = b.children[c].PushValue(rv.Field(i).Interface())
			}
			if err != nil {
				return errs.Wrap(errs.KindOf(err), err, "field %q", b.fields[c].Name)
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return mismatch(v, "Struct")
		}
		for c, f := range b.fields {
			item := rv.MapIndex(reflect.ValueOf(f.Name).Convert(rv.Type().Key()))
			if !item.IsValid() {
				err = b.children[c].PushDefault()
			} else {
				err = b.children[c].PushValue(item.Interface())
			}
			if err != nil {
				return errs.Wrap(errs.KindOf(err), err, "field %q", f.Name)
			}
		}
	default:
		return mismatch(v, "Struct")
	}
	b.n++
	return nil
}

func (b *structBuilder) PushDefault() error {
	for _, child := range b.children {
		if err := child.PushDefault(); err != nil {
			return err
		}
	}
	b.n++
	return nil
}

func (b *structBuilder) Len() int { return b.n }

func (b *structBuilder) BuildArray() (array.Array, error) {
	n := b.n
	b.n = 0
	fields := make([]array.StructField, len(b.children))
	var firstErr error
	for i, child := range b.children {
		a, err := child.BuildArray()
		if err == nil && a.Len() != n {
			err = errs.Unsupportedf("field %q has %d rows, want %d", b.fields[i].Name, a.Len(), n)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		fields[i] = array.StructField{Meta: b.fields[i].Meta(), Array: a}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return array.Struct{Length: n, Fields: fields}, nil
}

// sequence returns the elements of a slice or array value.
func sequence(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	default:
		return reflect.Value{}, false
	}
}

type listBuilder[O int32 | int64] struct {
	elem    Builder
	offsets []O
	build   func([]O, array.Array) array.Array
}

func newListBuilder[O int32 | int64](elem datatypes.Field, build func([]O, array.Array) array.Array) (*listBuilder[O], error) {
	child, err := New(elem)
	if err != nil {
		return nil, err
	}
	return &listBuilder[O]{elem: child, offsets: []O{0}, build: build}, nil
}

func (b *listBuilder[O]) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	rv, ok := sequence(v)
	if !ok {
		return mismatch(v, "List")
	}
	end := int64(b.elem.Len()) + int64(rv.Len())
	if int64(O(end)) != end {
		return errs.Unsupportedf("%d list elements overflow the offset type", end)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := b.elem.PushValue(rv.Index(i).Interface()); err != nil {
			return errs.Wrap(errs.KindOf(err), err, "element %d", i)
		}
	}
	b.offsets = append(b.offsets, O(end))
	return nil
}

func (b *listBuilder[O]) PushDefault() error {
	b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1])
	return nil
}

func (b *listBuilder[O]) Len() int { return len(b.offsets) - 1 }

func (b *listBuilder[O]) BuildArray() (array.Array, error) {
	offsets := b.offsets
	b.offsets = []O{0}
	elems, err := b.elem.BuildArray()
	if err != nil {
		return nil, err
	}
	if int64(elems.Len()) != int64(offsets[len(offsets)-1]) {
		return nil, errs.Unsupportedf("list offsets end at %d but there are %d elements", offsets[len(offsets)-1], elems.Len())
	}
	return b.build(offsets, elems), nil
}

type fixedSizeListBuilder struct {
	elem Builder
	meta datatypes.FieldMeta
	size int
	n    int
}

func newFixedSizeListBuilder(dt datatypes.FixedSizeList) (*fixedSizeListBuilder, error) {
	child, err := New(dt.Elem)
	if err != nil {
		return nil, err
	}
	return &fixedSizeListBuilder{elem: child, meta: dt.Elem.Meta(), size: int(dt.N)}, nil
}

func (b *fixedSizeListBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	rv, ok := sequence(v)
	if !ok {
		return mismatch(v, "FixedSizeList")
	}
	if rv.Len() != b.size {
		return errs.Unsupportedf("value of %d elements does not match FixedSizeList(%d)", rv.Len(), b.size)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := b.elem.PushValue(rv.Index(i).Interface()); err != nil {
			return errs.Wrap(errs.KindOf(err), err, "element %d", i)
		}
	}
	b.n++
	return nil
}

func (b *fixedSizeListBuilder) PushDefault() error {
	for i := 0; i < b.size; i++ {
		if err := b.elem.PushDefault(); err != nil {
			return err
		}
	}
	b.n++
	return nil
}

func (b *fixedSizeListBuilder) Len() int { return b.n }

func (b *fixedSizeListBuilder) BuildArray() (array.Array, error) {
	n := b.n
	b.n = 0
	elems, err := b.elem.BuildArray()
	if err != nil {
		return nil, err
	}
	if elems.Len() != n*b.size {
		return nil, errs.Unsupportedf("fixed size list of %d rows has %d elements, want %d", n, elems.Len(), n*b.size)
	}
	return array.FixedSizeList{Length: n, N: int32(b.size), Meta: b.meta, Elements: elems}, nil
}

// mapBuilder accepts Go maps. Entries are ordered by key: strings,
// integers and floats by value, booleans false first, and any other key
// by its fmt.Sprint text.
type mapBuilder struct {
	meta    datatypes.MapMeta
	keys    Builder
	values  Builder
	offsets []int32
}

func newMapBuilder(dt datatypes.Map) (*mapBuilder, error) {
	meta, key, value, err := dt.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Keys.Nullable {
		return nil, errs.Unsupportedf("map keys cannot be nullable")
	}
	keys, err := New(datatypes.FieldFromMeta(key, meta.Keys))
	if err != nil {
		return nil, err
	}
	values, err := New(datatypes.FieldFromMeta(value, meta.Values))
	if err != nil {
		return nil, err
	}
	return &mapBuilder{meta: meta, keys: keys, values: values, offsets: []int32{0}}, nil
}

func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case b.Bool():
			return -1
		default:
			return 1
		}
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}

func (b *mapBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return mismatch(v, "Map")
	}
	end := int64(b.keys.Len()) + int64(rv.Len())
	if end > math.MaxInt32 {
		return errs.Unsupportedf("%d map entries overflow int32 offsets", end)
	}

	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	for _, k := range keys {
		if err := b.keys.PushValue(k.Interface()); err != nil {
			return errs.Wrap(errs.KindOf(err), err, "map key %v", k)
		}
		if err := b.values.PushValue(rv.MapIndex(k).Interface()); err != nil {
			return errs.Wrap(errs.KindOf(err), err, "map value for key %v", k)
		}
	}
	b.offsets = append(b.offsets, int32(end))
	return nil
}

func (b *mapBuilder) PushDefault() error {
	b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1])
	return nil
}

func (b *mapBuilder) Len() int { return len(b.offsets) - 1 }

func (b *mapBuilder) BuildArray() (array.Array, error) {
	offsets := b.offsets
	b.offsets = []int32{0}
	keys, err := b.keys.BuildArray()
	if err != nil {
		return nil, err
	}
	values, err := b.values.BuildArray()
	if err != nil {
		return nil, err
	}
	last := int(offsets[len(offsets)-1])
	if keys.Len() != last || values.Len() != last {
		return nil, errs.Unsupportedf("map offsets end at %d but there are %d keys and %d values", last, keys.Len(), values.Len())
	}
	return array.Map{Offsets: offsets, Meta: b.meta, Keys: keys, Values: values}, nil
}
