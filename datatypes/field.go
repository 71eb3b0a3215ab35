package datatypes

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// Field describes one column or one nested element.
type Field struct {
	Name     string
	DataType DataType
	Nullable bool
	Metadata map[string]string
}

// NewField returns a field without metadata.
func NewField(name string, dt DataType, nullable bool) Field {
	return Field{Name: name, DataType: dt, Nullable: nullable}
}

// Meta returns the field without its data type.
func (f Field) Meta() FieldMeta {
	return FieldMeta{Name: f.Name, Nullable: f.Nullable, Metadata: f.Metadata}
}

// Equal reports whether f and o are structurally equal.
func (f Field) Equal(o Field) bool {
	return f.Name == o.Name &&
		f.Nullable == o.Nullable &&
		maps.Equal(f.Metadata, o.Metadata) &&
		Equal(f.DataType, o.DataType)
}

func (f Field) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %v", f.Name, f.DataType)
	if f.Nullable {
		sb.WriteString(" nullable")
	}
	if len(f.Metadata) > 0 {
		keys := slices.Sorted(maps.Keys(f.Metadata))
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, f.Metadata[k])
		}
		sb.WriteString("}")
	}
	return sb.String()
}

// FieldMeta is a Field without its data type. Arrays store it next to
// their children; the data type is derived from the child array.
type FieldMeta struct {
	Name     string
	Nullable bool
	Metadata map[string]string
}

// Equal reports whether m and o are equal. Nil metadata equals empty
// metadata.
func (m FieldMeta) Equal(o FieldMeta) bool {
	return m.Name == o.Name && m.Nullable == o.Nullable && maps.Equal(m.Metadata, o.Metadata)
}

// FieldFromMeta joins a data type with its metadata.
func FieldFromMeta(dt DataType, meta FieldMeta) Field {
	return Field{Name: meta.Name, DataType: dt, Nullable: meta.Nullable, Metadata: meta.Metadata}
}

// MapMeta holds the names and metadata of a map's entries, keys and values.
type MapMeta struct {
	EntriesName string
	Sorted      bool
	Keys        FieldMeta
	Values      FieldMeta
}

// DefaultMapMeta returns the layout used by arrow's MapType: entries
// "entries", a non-nullable "key" and a nullable "value".
func DefaultMapMeta() MapMeta {
	return MapMeta{
		EntriesName: "entries",
		Keys:        FieldMeta{Name: "key"},
		Values:      FieldMeta{Name: "value", Nullable: true},
	}
}

// Equal reports whether m and o are equal.
func (m MapMeta) Equal(o MapMeta) bool {
	return m.EntriesName == o.EntriesName && m.Sorted == o.Sorted && m.Keys.Equal(o.Keys) && m.Values.Equal(o.Values)
}

// RunEndEncodedMeta holds the names of the run ends and values children.
// Run ends are never nullable.
type RunEndEncodedMeta struct {
	RunEndsName string
	Values      FieldMeta
}

// DefaultRunEndEncodedMeta returns "run_ends" and a nullable "values".
func DefaultRunEndEncodedMeta() RunEndEncodedMeta {
	return RunEndEncodedMeta{
		RunEndsName: "run_ends",
		Values:      FieldMeta{Name: "values", Nullable: true},
	}
}

// Equal reports whether m and o are equal.
func (m RunEndEncodedMeta) Equal(o RunEndEncodedMeta) bool {
	return m.RunEndsName == o.RunEndsName && m.Values.Equal(o.Values)
}

// MapOf builds the Map data type for the given key and value types.
func MapOf(key, value DataType, meta MapMeta) Map {
	return Map{
		Entries: Field{
			Name: meta.EntriesName,
			DataType: Struct{Fields: []Field{
				FieldFromMeta(key, meta.Keys),
				FieldFromMeta(value, meta.Values),
			}},
		},
		Sorted: meta.Sorted,
	}
}

// Meta splits a Map data type into its MapMeta and key and value types.
func (t Map) Meta() (MapMeta, DataType, DataType, error) {
	st, ok := t.Entries.DataType.(Struct)
	if !ok || len(st.Fields) != 2 {
		return MapMeta{}, nil, nil, errs.Unsupportedf("map entries must be a struct with two fields, got %v", t.Entries.DataType)
	}
	meta := MapMeta{
		EntriesName: t.Entries.Name,
		Sorted:      t.Sorted,
		Keys:        st.Fields[0].Meta(),
		Values:      st.Fields[1].Meta(),
	}
	return meta, st.Fields[0].DataType, st.Fields[1].DataType, nil
}
