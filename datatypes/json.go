package datatypes

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// The JSON form is externally tagged: parameterless types are a bare
// string ("Int64"), others an object with a single key naming the variant,
// e.g. {"Timestamp":["Millisecond","UTC"]} or {"List":{...field...}}.

type fieldJSON struct {
	Name     string            `json:"name"`
	DataType json.RawMessage   `json:"data_type"`
	Nullable bool              `json:"nullable"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	dt, err := MarshalDataType(f.DataType)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fieldJSON{Name: f.Name, DataType: dt, Nullable: f.Nullable, Metadata: f.Metadata})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errs.Wrap(errs.ParseError, err, "invalid field")
	}
	dt, err := UnmarshalDataType(raw.DataType)
	if err != nil {
		return err
	}
	*f = Field{Name: raw.Name, DataType: dt, Nullable: raw.Nullable, Metadata: raw.Metadata}
	return nil
}

// MarshalDataType encodes dt in its JSON form.
func MarshalDataType(dt DataType) ([]byte, error) {
	v, err := encodeDataType(dt)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func encodeDataType(dt DataType) (any, error) {
	tagged := func(v any) map[string]any { return map[string]any{dt.ID().String(): v} }

	switch dt := dt.(type) {
	case Basic:
		if !dt.Valid() {
			return nil, errs.Unsupportedf("invalid basic type id %d", int(dt))
		}
		return dt.String(), nil
	case FixedSizeBinary:
		return tagged(dt.ByteWidth), nil
	case Timestamp:
		var tz any
		if dt.Timezone != "" {
			tz = dt.Timezone
		}
		return tagged([]any{dt.Unit, tz}), nil
	case Time32:
		return tagged(dt.Unit), nil
	case Time64:
		return tagged(dt.Unit), nil
	case Duration:
		return tagged(dt.Unit), nil
	case Interval:
		return tagged(dt.Unit), nil
	case Decimal128:
		return tagged([]any{dt.Precision, dt.Scale}), nil
	case Struct:
		fields := dt.Fields
		if fields == nil {
			fields = []Field{}
		}
		return tagged(fields), nil
	case List:
		return tagged(dt.Elem), nil
	case LargeList:
		return tagged(dt.Elem), nil
	case FixedSizeList:
		return tagged([]any{dt.Elem, dt.N}), nil
	case Map:
		return tagged([]any{dt.Entries, dt.Sorted}), nil
	case Dictionary:
		key, err := encodeDataType(dt.Key)
		if err != nil {
			return nil, err
		}
		value, err := encodeDataType(dt.Value)
		if err != nil {
			return nil, err
		}
		return tagged([]any{key, value, dt.Sorted}), nil
	case RunEndEncoded:
		return tagged([]any{dt.RunEnds, dt.Values}), nil
	case Union:
		variants := make([]any, len(dt.Variants))
		for i, v := range dt.Variants {
			variants[i] = []any{v.TypeID, v.Field}
		}
		return tagged([]any{variants, dt.Mode}), nil
	case nil:
		return nil, errs.Unsupportedf("missing data type")
	default:
		return nil, errs.Unsupportedf("unknown data type %T", dt)
	}
}

var basicByName = func() map[string]Basic {
	m := make(map[string]Basic)
	for b := Null; b <= Date64; b++ {
		m[b.String()] = b
	}
	return m
}()

// UnmarshalDataType decodes the JSON form produced by MarshalDataType.
func UnmarshalDataType(data []byte) (DataType, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, errs.Wrap(errs.ParseError, err, "invalid data type")
		}
		b, ok := basicByName[name]
		if !ok {
			return nil, errs.Parsef("unknown data type %q", name)
		}
		return b, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errs.Wrap(errs.ParseError, err, "invalid data type")
	}
	if len(obj) != 1 {
		return nil, errs.Parsef("data type object must have exactly one key, got %d", len(obj))
	}
	for tag, body := range obj {
		return decodeTagged(tag, body)
	}
	panic("unreachable")
}

// decodeInto unmarshals body into the given targets, either directly or
// as the elements of a JSON array.
func decodeInto(tag string, body json.RawMessage, targets ...any) error {
	var err error
	if len(targets) == 1 {
		err = json.Unmarshal(body, targets[0])
	} else {
		var parts []json.RawMessage
		if err = json.Unmarshal(body, &parts); err == nil {
			if len(parts) != len(targets) {
				return errs.Parsef("%s expects %d values, got %d", tag, len(targets), len(parts))
			}
			for i := range parts {
				if err = json.Unmarshal(parts[i], targets[i]); err != nil {
					break
				}
			}
		}
	}
	if err != nil {
		if errs.KindOf(err) != 0 {
			return err
		}
		return errs.Wrap(errs.ParseError, err, "invalid %s", tag)
	}
	return nil
}

func done[T DataType](t *T, err error) (DataType, error) {
	if err != nil {
		return nil, err
	}
	return *t, nil
}

func decodeTagged(tag string, body json.RawMessage) (DataType, error) {
	switch tag {
	case "FixedSizeBinary":
		t := new(FixedSizeBinary)
		return done(t, decodeInto(tag, body, &t.ByteWidth))
	case "Timestamp":
		var t Timestamp
		var tz *string
		if err := decodeInto(tag, body, &t.Unit, &tz); err != nil {
			return nil, err
		}
		if tz != nil {
			t.Timezone = *tz
		}
		return t, nil
	case "Time32":
		t := new(Time32)
		return done(t, decodeInto(tag, body, &t.Unit))
	case "Time64":
		t := new(Time64)
		return done(t, decodeInto(tag, body, &t.Unit))
	case "Duration":
		t := new(Duration)
		return done(t, decodeInto(tag, body, &t.Unit))
	case "Interval":
		t := new(Interval)
		return done(t, decodeInto(tag, body, &t.Unit))
	case "Decimal128":
		t := new(Decimal128)
		return done(t, decodeInto(tag, body, &t.Precision, &t.Scale))
	case "Struct":
		t := new(Struct)
		return done(t, decodeInto(tag, body, &t.Fields))
	case "List":
		t := new(List)
		return done(t, decodeInto(tag, body, &t.Elem))
	case "LargeList":
		t := new(LargeList)
		return done(t, decodeInto(tag, body, &t.Elem))
	case "FixedSizeList":
		t := new(FixedSizeList)
		return done(t, decodeInto(tag, body, &t.Elem, &t.N))
	case "Map":
		t := new(Map)
		return done(t, decodeInto(tag, body, &t.Entries, &t.Sorted))
	case "Dictionary":
		var key, value json.RawMessage
		var t Dictionary
		if err := decodeInto(tag, body, &key, &value, &t.Sorted); err != nil {
			return nil, err
		}
		var err error
		if t.Key, err = UnmarshalDataType(key); err != nil {
			return nil, err
		}
		if t.Value, err = UnmarshalDataType(value); err != nil {
			return nil, err
		}
		return t, nil
	case "RunEndEncoded":
		t := new(RunEndEncoded)
		return done(t, decodeInto(tag, body, &t.RunEnds, &t.Values))
	case "Union":
		var variants []json.RawMessage
		var t Union
		if err := decodeInto(tag, body, &variants, &t.Mode); err != nil {
			return nil, err
		}
		for _, raw := range variants {
			var v UnionVariant
			if err := decodeInto(tag, raw, &v.TypeID, &v.Field); err != nil {
				return nil, err
			}
			t.Variants = append(t.Variants, v)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, errs.Parsef("unknown data type %q", tag)
	}
}
