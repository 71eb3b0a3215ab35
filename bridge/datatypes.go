package bridge

import (
	"maps"
	"math"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

var basicToArrow = map[datatypes.Basic]arrow.DataType{
	datatypes.Null:        arrow.Null,
	datatypes.Boolean:     arrow.FixedWidthTypes.Boolean,
	datatypes.Int8:        arrow.PrimitiveTypes.Int8,
	datatypes.Int16:       arrow.PrimitiveTypes.Int16,
	datatypes.Int32:       arrow.PrimitiveTypes.Int32,
	datatypes.Int64:       arrow.PrimitiveTypes.Int64,
	datatypes.UInt8:       arrow.PrimitiveTypes.Uint8,
	datatypes.UInt16:      arrow.PrimitiveTypes.Uint16,
	datatypes.UInt32:      arrow.PrimitiveTypes.Uint32,
	datatypes.UInt64:      arrow.PrimitiveTypes.Uint64,
	datatypes.Float16:     arrow.FixedWidthTypes.Float16,
	datatypes.Float32:     arrow.PrimitiveTypes.Float32,
	datatypes.Float64:     arrow.PrimitiveTypes.Float64,
	datatypes.Utf8:        arrow.BinaryTypes.String,
	datatypes.LargeUtf8:   arrow.BinaryTypes.LargeString,
	datatypes.Utf8View:    arrow.BinaryTypes.StringView,
	datatypes.Binary:      arrow.BinaryTypes.Binary,
	datatypes.LargeBinary: arrow.BinaryTypes.LargeBinary,
	datatypes.BinaryView:  arrow.BinaryTypes.BinaryView,
	datatypes.Date32:      arrow.PrimitiveTypes.Date32,
	datatypes.Date64:      arrow.PrimitiveTypes.Date64,
}

var basicFromArrow = func() map[arrow.Type]datatypes.Basic {
	m := make(map[arrow.Type]datatypes.Basic, len(basicToArrow))
	for b, t := range basicToArrow {
		m[t.ID()] = b
	}
	return m
}()

func timeUnitToArrow(u datatypes.TimeUnit) arrow.TimeUnit {
	switch u {
	case datatypes.Second:
		return arrow.Second
	case datatypes.Millisecond:
		return arrow.Millisecond
	case datatypes.Microsecond:
		return arrow.Microsecond
	default:
		return arrow.Nanosecond
	}
}

func timeUnitFromArrow(u arrow.TimeUnit) (datatypes.TimeUnit, error) {
	switch u {
	case arrow.Second:
		return datatypes.Second, nil
	case arrow.Millisecond:
		return datatypes.Millisecond, nil
	case arrow.Microsecond:
		return datatypes.Microsecond, nil
	case arrow.Nanosecond:
		return datatypes.Nanosecond, nil
	}
	return 0, errs.Unsupportedf("unknown arrow time unit %d", int(u))
}

func metadataToArrow(m map[string]string) arrow.Metadata {
	if len(m) == 0 {
		return arrow.Metadata{}
	}
	keys := slices.Sorted(maps.Keys(m))
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return arrow.NewMetadata(keys, values)
}

func metadataFromArrow(md arrow.Metadata) map[string]string {
	if md.Len() == 0 {
		return nil
	}
	return md.ToMap()
}

// DataTypeToArrow maps t to the runtime's data type. Shapes the runtime
// cannot represent fail with Unsupported.
func DataTypeToArrow(t datatypes.DataType) (arrow.DataType, error) {
	if err := datatypes.Validate(t); err != nil {
		return nil, err
	}
	return typeToArrow(t)
}

// FieldToArrow maps f to the runtime's field.
func FieldToArrow(f datatypes.Field) (arrow.Field, error) {
	t, err := DataTypeToArrow(f.DataType)
	if err != nil {
		return arrow.Field{}, errs.Wrap(errs.KindOf(err), err, "field %q", f.Name)
	}
	return arrowField(f.Meta(), t), nil
}

// SchemaToArrow maps a list of top level fields to a runtime schema.
func SchemaToArrow(fields []datatypes.Field) (*arrow.Schema, error) {
	out := make([]arrow.Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, errs.Unsupportedf("top level field %d has no name", i)
		}
		af, err := FieldToArrow(f)
		if err != nil {
			return nil, err
		}
		out[i] = af
	}
	return arrow.NewSchema(out, nil), nil
}

func arrowField(meta datatypes.FieldMeta, t arrow.DataType) arrow.Field {
	return arrow.Field{Name: meta.Name, Type: t, Nullable: meta.Nullable, Metadata: metadataToArrow(meta.Metadata)}
}

func fieldToArrow(f datatypes.Field) (arrow.Field, error) {
	t, err := typeToArrow(f.DataType)
	if err != nil {
		return arrow.Field{}, err
	}
	return arrowField(f.Meta(), t), nil
}

func typeToArrow(t datatypes.DataType) (arrow.DataType, error) {
	switch t := t.(type) {
	case datatypes.Basic:
		if at, ok := basicToArrow[t]; ok {
			return at, nil
		}
	case datatypes.FixedSizeBinary:
		return &arrow.FixedSizeBinaryType{ByteWidth: int(t.ByteWidth)}, nil
	case datatypes.Timestamp:
		return &arrow.TimestampType{Unit: timeUnitToArrow(t.Unit), TimeZone: t.Timezone}, nil
	case datatypes.Time32:
		return &arrow.Time32Type{Unit: timeUnitToArrow(t.Unit)}, nil
	case datatypes.Time64:
		return &arrow.Time64Type{Unit: timeUnitToArrow(t.Unit)}, nil
	case datatypes.Duration:
		return &arrow.DurationType{Unit: timeUnitToArrow(t.Unit)}, nil
	case datatypes.Interval:
		switch t.Unit {
		case datatypes.YearMonth:
			return arrow.FixedWidthTypes.MonthInterval, nil
		case datatypes.DayTime:
			return arrow.FixedWidthTypes.DayTimeInterval, nil
		case datatypes.MonthDayNano:
			return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
		}
	case datatypes.Decimal128:
		if t.Precision < 1 || t.Precision > 38 || int(t.Scale) > int(t.Precision) {
			return nil, errs.Unsupportedf("decimal128 precision %d and scale %d are out of range", t.Precision, t.Scale)
		}
		return &arrow.Decimal128Type{Precision: int32(t.Precision), Scale: int32(t.Scale)}, nil
	case datatypes.Struct:
		fields := make([]arrow.Field, len(t.Fields))
		for i, f := range t.Fields {
			af, err := fieldToArrow(f)
			if err != nil {
				return nil, err
			}
			fields[i] = af
		}
		return arrow.StructOf(fields...), nil
	case datatypes.List:
		elem, err := fieldToArrow(t.Elem)
		if err != nil {
			return nil, err
		}
		return arrow.ListOfField(elem), nil
	case datatypes.LargeList:
		elem, err := fieldToArrow(t.Elem)
		if err != nil {
			return nil, err
		}
		return arrow.LargeListOfField(elem), nil
	case datatypes.FixedSizeList:
		elem, err := fieldToArrow(t.Elem)
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOfField(t.N, elem), nil
	case datatypes.Map:
		return mapToArrow(t)
	case datatypes.Dictionary:
		key, err := typeToArrow(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := typeToArrow(t.Value)
		if err != nil {
			return nil, err
		}
		return &arrow.DictionaryType{IndexType: key, ValueType: value, Ordered: t.Sorted}, nil
	case datatypes.RunEndEncoded:
		return runEndEncodedToArrow(t)
	case datatypes.Union:
		return unionToArrow(t)
	}
	return nil, errs.Unsupportedf("data type %v has no arrow counterpart", t)
}

// mapToArrow builds the runtime MapType. The runtime fixes the entries,
// key and value names and never allows a nullable key, so any other layout
// is Unsupported.
func mapToArrow(t datatypes.Map) (*arrow.MapType, error) {
	meta, key, value, err := t.Meta()
	if err != nil {
		return nil, err
	}
	keyType, err := typeToArrow(key)
	if err != nil {
		return nil, err
	}
	valueType, err := typeToArrow(value)
	if err != nil {
		return nil, err
	}
	mt := arrow.MapOfWithMetadata(
		keyType, metadataToArrow(meta.Keys.Metadata),
		valueType, metadataToArrow(meta.Values.Metadata),
	)
	mt.SetItemNullable(meta.Values.Nullable)
	mt.KeysSorted = meta.Sorted

	back, err := typeFromArrow(mt)
	if err != nil {
		return nil, err
	}
	if !datatypes.Equal(back, t) {
		return nil, errs.Unsupportedf("map layout %v cannot be represented; arrow requires %v", t, back)
	}
	return mt, nil
}

func runEndEncodedToArrow(t datatypes.RunEndEncoded) (*arrow.RunEndEncodedType, error) {
	runEnds, err := typeToArrow(t.RunEnds.DataType)
	if err != nil {
		return nil, err
	}
	values, err := typeToArrow(t.Values.DataType)
	if err != nil {
		return nil, err
	}
	rt := arrow.RunEndEncodedOf(runEnds, values)
	rt.ValueNullable = t.Values.Nullable

	back, err := typeFromArrow(rt)
	if err != nil {
		return nil, err
	}
	if !datatypes.Equal(back, t) {
		return nil, errs.Unsupportedf("run-end-encoded layout %v cannot be represented; arrow requires %v", t, back)
	}
	return rt, nil
}

func unionToArrow(t datatypes.Union) (arrow.DataType, error) {
	fields := make([]arrow.Field, len(t.Variants))
	codes := make([]arrow.UnionTypeCode, len(t.Variants))
	for i, v := range t.Variants {
		f, err := fieldToArrow(v.Field)
		if err != nil {
			return nil, err
		}
		fields[i] = f
		codes[i] = arrow.UnionTypeCode(v.TypeID)
	}
	if t.Mode == datatypes.Dense {
		return arrow.DenseUnionOf(fields, codes), nil
	}
	return arrow.SparseUnionOf(fields, codes), nil
}

// DataTypeFromArrow maps a runtime data type back. Runtime types outside
// the model, such as extension types, fail with Unsupported.
func DataTypeFromArrow(t arrow.DataType) (datatypes.DataType, error) {
	return typeFromArrow(t)
}

// FieldFromArrow maps a runtime field back.
func FieldFromArrow(f arrow.Field) (datatypes.Field, error) {
	t, err := typeFromArrow(f.Type)
	if err != nil {
		return datatypes.Field{}, err
	}
	return datatypes.Field{Name: f.Name, DataType: t, Nullable: f.Nullable, Metadata: metadataFromArrow(f.Metadata)}, nil
}

// SchemaFromArrow maps the fields of a runtime schema back. Schema level
// metadata is not part of the model and is dropped.
func SchemaFromArrow(s *arrow.Schema) ([]datatypes.Field, error) {
	out := make([]datatypes.Field, s.NumFields())
	for i, f := range s.Fields() {
		df, err := FieldFromArrow(f)
		if err != nil {
			return nil, err
		}
		out[i] = df
	}
	return out, nil
}

func typeFromArrow(t arrow.DataType) (datatypes.DataType, error) {
	if t == nil {
		return nil, errs.Unsupportedf("missing arrow data type")
	}
	if b, ok := basicFromArrow[t.ID()]; ok {
		return b, nil
	}

	switch t := t.(type) {
	case *arrow.FixedSizeBinaryType:
		if t.ByteWidth > math.MaxInt32 {
			return nil, errs.Unsupportedf("fixed size binary width %d overflows int32", t.ByteWidth)
		}
		return datatypes.FixedSizeBinary{ByteWidth: int32(t.ByteWidth)}, nil
	case *arrow.TimestampType:
		unit, err := timeUnitFromArrow(t.Unit)
		if err != nil {
			return nil, err
		}
		return datatypes.Timestamp{Unit: unit, Timezone: t.TimeZone}, nil
	case *arrow.Time32Type:
		unit, err := timeUnitFromArrow(t.Unit)
		if err != nil {
			return nil, err
		}
		return datatypes.Time32{Unit: unit}, nil
	case *arrow.Time64Type:
		unit, err := timeUnitFromArrow(t.Unit)
		if err != nil {
			return nil, err
		}
		return datatypes.Time64{Unit: unit}, nil
	case *arrow.DurationType:
		unit, err := timeUnitFromArrow(t.Unit)
		if err != nil {
			return nil, err
		}
		return datatypes.Duration{Unit: unit}, nil
	case *arrow.MonthIntervalType:
		return datatypes.Interval{Unit: datatypes.YearMonth}, nil
	case *arrow.DayTimeIntervalType:
		return datatypes.Interval{Unit: datatypes.DayTime}, nil
	case *arrow.MonthDayNanoIntervalType:
		return datatypes.Interval{Unit: datatypes.MonthDayNano}, nil
	case *arrow.Decimal128Type:
		if t.Precision < 1 || t.Precision > 38 || t.Scale < math.MinInt8 || t.Scale > int32(t.Precision) {
			return nil, errs.Unsupportedf("decimal128 precision %d and scale %d are out of range", t.Precision, t.Scale)
		}
		return datatypes.Decimal128{Precision: uint8(t.Precision), Scale: int8(t.Scale)}, nil
	case *arrow.StructType:
		fields := make([]datatypes.Field, t.NumFields())
		for i, f := range t.Fields() {
			df, err := FieldFromArrow(f)
			if err != nil {
				return nil, err
			}
			fields[i] = df
		}
		return datatypes.Struct{Fields: fields}, nil
	case *arrow.MapType:
		entries, err := FieldFromArrow(t.ElemField())
		if err != nil {
			return nil, err
		}
		return datatypes.Map{Entries: entries, Sorted: t.KeysSorted}, nil
	case *arrow.ListType:
		elem, err := FieldFromArrow(t.ElemField())
		if err != nil {
			return nil, err
		}
		return datatypes.List{Elem: elem}, nil
	case *arrow.LargeListType:
		elem, err := FieldFromArrow(t.ElemField())
		if err != nil {
			return nil, err
		}
		return datatypes.LargeList{Elem: elem}, nil
	case *arrow.FixedSizeListType:
		elem, err := FieldFromArrow(t.ElemField())
		if err != nil {
			return nil, err
		}
		return datatypes.FixedSizeList{Elem: elem, N: t.Len()}, nil
	case *arrow.DictionaryType:
		key, err := typeFromArrow(t.IndexType)
		if err != nil {
			return nil, err
		}
		if !datatypes.IsInteger(key) {
			return nil, errs.Unsupportedf("dictionary index type %s is not an integer", t.IndexType)
		}
		value, err := typeFromArrow(t.ValueType)
		if err != nil {
			return nil, err
		}
		return datatypes.Dictionary{Key: key, Value: value, Sorted: t.Ordered}, nil
	case *arrow.RunEndEncodedType:
		fields := t.Fields()
		runEnds, err := FieldFromArrow(fields[0])
		if err != nil {
			return nil, err
		}
		values, err := FieldFromArrow(fields[1])
		if err != nil {
			return nil, err
		}
		return datatypes.RunEndEncoded{RunEnds: runEnds, Values: values}, nil
	case arrow.UnionType:
		fields := t.Fields()
		codes := t.TypeCodes()
		variants := make([]datatypes.UnionVariant, len(fields))
		for i, f := range fields {
			df, err := FieldFromArrow(f)
			if err != nil {
				return nil, err
			}
			variants[i] = datatypes.UnionVariant{TypeID: int8(codes[i]), Field: df}
		}
		mode := datatypes.Sparse
		if t.Mode() == arrow.DenseMode {
			mode = datatypes.Dense
		}
		u := datatypes.Union{Variants: variants, Mode: mode}
		if err := u.Validate(); err != nil {
			return nil, err
		}
		return u, nil
	}
	return nil, errs.Unsupportedf("arrow data type %s is not supported", t)
}
