// Package typeinfo derives columnar fields from Go types.
//
// Inference walks a reflect.Type and maps it onto a datatypes.Field:
//
//   - bool, the sized integers and floats map to the matching basic type;
//     int and uint are treated as 64 bit
//   - string maps to Options.StringType
//   - *T is T made nullable
//   - []byte maps to Binary, or LargeBinary with Options.LargeList
//   - [N]byte maps to FixedSizeBinary(N) and [N]T to FixedSizeList
//   - []T maps to List, or LargeList with Options.LargeList
//   - map[K]V maps to a Map with the default entry names
//   - structs map to Struct; the `arrow:"name"` tag renames a field and
//     `arrow:"-"` skips it
//   - struct{} maps to a nullable Null
//
// time.Time, time.Duration, uuid.UUID and float16.Float16 have fixed
// mappings. Types that implement Inferer describe themselves, and
// Options.Overrides replaces the field found at a path.
package typeinfo

import (
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/x448/float16"

	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// RootPath is the path of the top level field.
const RootPath = "$"

// Extension metadata attached to uuid.UUID fields.
const (
	ExtensionNameKey     = "ARROW:extension:name"
	ExtensionMetadataKey = "ARROW:extension:metadata"
	UUIDExtensionName    = "arrow.uuid"
)

// Options controls inference.
type Options struct {
	// StringType is Utf8 or LargeUtf8.
	StringType datatypes.DataType

	// LargeList selects 64 bit offsets for lists and byte slices.
	LargeList bool

	// Overrides maps a path such as "$.items.element" to the field used
	// there instead of the inferred one. The override's name is replaced
	// by the name at that path.
	Overrides map[string]datatypes.Field
}

// DefaultOptions returns LargeUtf8 strings, 32 bit list offsets and no
// overrides.
func DefaultOptions() Options {
	return Options{StringType: datatypes.LargeUtf8}
}

func (o Options) validate() error {
	switch o.StringType {
	case datatypes.Utf8, datatypes.LargeUtf8:
		return nil
	default:
		return errs.Unsupportedf("string type must be Utf8 or LargeUtf8, got %v", o.StringType)
	}
}

// Inferer is implemented by types that describe their own field.
// ArrowField is called on the zero value, or on a pointer to it when the
// method has a pointer receiver.
type Inferer interface {
	ArrowField(ctx Context) (datatypes.Field, error)
}

var (
	infererType  = reflect.TypeFor[Inferer]()
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	float16Type  = reflect.TypeFor[float16.Float16]()
	decimalType  = reflect.TypeFor[decimal.Decimal]()
)

// Context is the position inference is at.
type Context struct {
	path string
	name string
	opts *Options
	seen map[reflect.Type]bool
}

// Name is the field name at this position.
func (c Context) Name() string { return c.name }

// Path is the dotted path from RootPath.
func (c Context) Path() string { return c.path }

// Options returns the options inference was started with.
func (c Context) Options() Options { return *c.opts }

// Nest returns the context of the child called name.
func (c Context) Nest(name string) Context {
	return Context{path: c.path + "." + name, name: name, opts: c.opts, seen: c.seen}
}

// Field infers the field of t at this position.
func (c Context) Field(t reflect.Type) (datatypes.Field, error) {
	if t == nil {
		return datatypes.Field{}, errs.Unsupportedf("cannot infer a field for a nil type at %s", c.path)
	}
	if f, ok := c.opts.Overrides[c.path]; ok {
		f.Name = c.name
		return f, nil
	}
	return c.infer(t)
}

// InferField returns the field for t named name.
func InferField(t reflect.Type, name string, opts Options) (datatypes.Field, error) {
	if err := opts.validate(); err != nil {
		return datatypes.Field{}, err
	}
	ctx := Context{path: RootPath, name: name, opts: &opts, seen: map[reflect.Type]bool{}}
	return ctx.Field(t)
}

// Infer returns the field for T named name.
func Infer[T any](name string, opts Options) (datatypes.Field, error) {
	return InferField(reflect.TypeFor[T](), name, opts)
}

func (c Context) field(dt datatypes.DataType, nullable bool) datatypes.Field {
	return datatypes.NewField(c.name, dt, nullable)
}

func (c Context) infer(t reflect.Type) (datatypes.Field, error) {
	if k := t.Kind(); k != reflect.Pointer && k != reflect.Interface {
		if inf, ok := infererFor(t); ok {
			f, err := inf.ArrowField(c)
			if err != nil {
				return datatypes.Field{}, err
			}
			f.Name = c.name
			return f, nil
		}
	}

	switch t {
	case timeType:
		return c.field(datatypes.Timestamp{Unit: datatypes.Millisecond, Timezone: "UTC"}, false), nil
	case durationType:
		return c.field(datatypes.Duration{Unit: datatypes.Nanosecond}, false), nil
	case uuidType:
		f := c.field(datatypes.FixedSizeBinary{ByteWidth: 16}, false)
		f.Metadata = map[string]string{
			ExtensionNameKey:     UUIDExtensionName,
			ExtensionMetadataKey: "",
		}
		return f, nil
	case float16Type:
		return c.field(datatypes.Float16, false), nil
	case decimalType:
		return datatypes.Field{}, errs.Unsupportedf("decimal.Decimal at %s needs an override with its precision and scale", c.path)
	}

	switch t.Kind() {
	case reflect.Bool:
		return c.field(datatypes.Boolean, false), nil
	case reflect.Int8:
		return c.field(datatypes.Int8, false), nil
	case reflect.Int16:
		return c.field(datatypes.Int16, false), nil
	case reflect.Int32:
		return c.field(datatypes.Int32, false), nil
	case reflect.Int, reflect.Int64:
		return c.field(datatypes.Int64, false), nil
	case reflect.Uint8:
		return c.field(datatypes.UInt8, false), nil
	case reflect.Uint16:
		return c.field(datatypes.UInt16, false), nil
	case reflect.Uint32:
		return c.field(datatypes.UInt32, false), nil
	case reflect.Uint, reflect.Uint64:
		return c.field(datatypes.UInt64, false), nil
	case reflect.Float32:
		return c.field(datatypes.Float32, false), nil
	case reflect.Float64:
		return c.field(datatypes.Float64, false), nil
	case reflect.String:
		return c.field(c.opts.StringType, false), nil
	case reflect.Pointer:
		f, err := c.Field(t.Elem())
		if err != nil {
			return datatypes.Field{}, err
		}
		f.Nullable = true
		return f, nil
	case reflect.Slice:
		return c.slice(t)
	case reflect.Array:
		return c.array(t)
	case reflect.Map:
		return c.mapField(t)
	case reflect.Struct:
		return c.structField(t)
	default:
		return datatypes.Field{}, errs.Unsupportedf("cannot infer a field for %v (%s) at %s", t, t.Kind(), c.path)
	}
}

func infererFor(t reflect.Type) (Inferer, bool) {
	if t.Implements(infererType) {
		return reflect.Zero(t).Interface().(Inferer), true
	}
	if reflect.PointerTo(t).Implements(infererType) {
		return reflect.New(t).Interface().(Inferer), true
	}
	return nil, false
}

func (c Context) slice(t reflect.Type) (datatypes.Field, error) {
	if t.Elem().Kind() == reflect.Uint8 {
		if c.opts.LargeList {
			return c.field(datatypes.LargeBinary, false), nil
		}
		return c.field(datatypes.Binary, false), nil
	}
	elem, err := c.Nest("element").Field(t.Elem())
	if err != nil {
		return datatypes.Field{}, err
	}
	if c.opts.LargeList {
		return c.field(datatypes.LargeList{Elem: elem}, false), nil
	}
	return c.field(datatypes.List{Elem: elem}, false), nil
}

func (c Context) array(t reflect.Type) (datatypes.Field, error) {
	n := t.Len()
	if n > math.MaxInt32 {
		return datatypes.Field{}, errs.Unsupportedf("array length %d at %s does not fit in int32", n, c.path)
	}
	if t.Elem().Kind() == reflect.Uint8 {
		return c.field(datatypes.FixedSizeBinary{ByteWidth: int32(n)}, false), nil
	}
	elem, err := c.Nest("element").Field(t.Elem())
	if err != nil {
		return datatypes.Field{}, err
	}
	return c.field(datatypes.FixedSizeList{Elem: elem, N: int32(n)}, false), nil
}

func (c Context) mapField(t reflect.Type) (datatypes.Field, error) {
	meta := datatypes.DefaultMapMeta()

	key, err := c.Nest(meta.Keys.Name).Field(t.Key())
	if err != nil {
		return datatypes.Field{}, err
	}
	if key.Nullable {
		return datatypes.Field{}, errs.Unsupportedf("map keys at %s cannot be nullable", c.path)
	}
	value, err := c.Nest(meta.Values.Name).Field(t.Elem())
	if err != nil {
		return datatypes.Field{}, err
	}

	meta.Keys.Metadata = key.Metadata
	meta.Values.Nullable = value.Nullable
	meta.Values.Metadata = value.Metadata
	return c.field(datatypes.MapOf(key.DataType, value.DataType, meta), false), nil
}

func (c Context) structField(t reflect.Type) (datatypes.Field, error) {
	if c.seen[t] {
		return datatypes.Field{}, errs.Unsupportedf("recursive type %v at %s", t, c.path)
	}
	c.seen[t] = true
	defer delete(c.seen, t)

	names := make(map[string]struct{}, t.NumField())
	var fields []datatypes.Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, ok := FieldName(sf)
		if !ok {
			continue
		}
		if _, dup := names[name]; dup {
			return datatypes.Field{}, errs.Unsupportedf("duplicate field name %q in %v at %s", name, t, c.path)
		}
		names[name] = struct{}{}

		f, err := c.Nest(name).Field(sf.Type)
		if err != nil {
			return datatypes.Field{}, err
		}
		fields = append(fields, f)
	}

	if len(fields) == 0 {
		return c.field(datatypes.Null, true), nil
	}
	return c.field(datatypes.Struct{Fields: fields}, false), nil
}

// FieldName returns the column name of a struct field and whether it is
// part of the layout at all.
func FieldName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}
	tag, _, _ := strings.Cut(sf.Tag.Get("arrow"), ",")
	switch tag {
	case "-":
		return "", false
	case "":
		return sf.Name, true
	default:
		return tag, true
	}
}
