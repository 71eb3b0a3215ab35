package datatypes

import (
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// Validate checks that type ids are non-negative and unique.
func (t Union) Validate() error {
	if t.Mode != Sparse && t.Mode != Dense {
		return errs.Unsupportedf("invalid union mode %d", int(t.Mode))
	}
	seen := make(map[int8]struct{}, len(t.Variants))
	for _, v := range t.Variants {
		if v.TypeID < 0 {
			return errs.Unsupportedf("union type id %d must be in 0..=127", v.TypeID)
		}
		if _, dup := seen[v.TypeID]; dup {
			return errs.Unsupportedf("duplicate union type id %d", v.TypeID)
		}
		seen[v.TypeID] = struct{}{}
	}
	return nil
}

// Validate checks the invariants of dt and all nested types: non-negative
// fixed sizes, valid units, integer dictionary keys and run ends, well
// formed map entries and union type ids.
func Validate(dt DataType) error {
	switch dt := dt.(type) {
	case nil:
		return errs.Unsupportedf("missing data type")
	case Basic:
		if !dt.Valid() {
			return errs.Unsupportedf("invalid basic type id %d", int(dt))
		}
	case FixedSizeBinary:
		if dt.ByteWidth < 0 {
			return errs.Unsupportedf("negative fixed size binary width %d", dt.ByteWidth)
		}
	case Timestamp:
		if !dt.Unit.Valid() {
			return errs.Unsupportedf("invalid time unit %d", int(dt.Unit))
		}
	case Time32:
		if dt.Unit != Second && dt.Unit != Millisecond {
			return errs.Unsupportedf("Time32 does not support unit %s", dt.Unit)
		}
	case Time64:
		if dt.Unit != Microsecond && dt.Unit != Nanosecond {
			return errs.Unsupportedf("Time64 does not support unit %s", dt.Unit)
		}
	case Duration:
		if !dt.Unit.Valid() {
			return errs.Unsupportedf("invalid time unit %d", int(dt.Unit))
		}
	case Interval:
		if dt.Unit < YearMonth || dt.Unit > MonthDayNano {
			return errs.Unsupportedf("invalid interval unit %d", int(dt.Unit))
		}
	case Decimal128:
	case Struct:
		for _, f := range dt.Fields {
			if err := Validate(f.DataType); err != nil {
				return err
			}
		}
	case List:
		return Validate(dt.Elem.DataType)
	case LargeList:
		return Validate(dt.Elem.DataType)
	case FixedSizeList:
		if dt.N < 0 {
			return errs.Unsupportedf("negative fixed size list size %d", dt.N)
		}
		return Validate(dt.Elem.DataType)
	case Map:
		_, key, value, err := dt.Meta()
		if err != nil {
			return err
		}
		if err := Validate(key); err != nil {
			return err
		}
		return Validate(value)
	case Dictionary:
		if !IsInteger(dt.Key) {
			return errs.Unsupportedf("dictionary keys must be an integer type, got %v", dt.Key)
		}
		return Validate(dt.Value)
	case RunEndEncoded:
		switch dt.RunEnds.DataType {
		case Int16, Int32, Int64:
		default:
			return errs.Unsupportedf("run ends must be Int16, Int32 or Int64, got %v", dt.RunEnds.DataType)
		}
		return Validate(dt.Values.DataType)
	case Union:
		if err := dt.Validate(); err != nil {
			return err
		}
		for _, v := range dt.Variants {
			if err := Validate(v.Field.DataType); err != nil {
				return err
			}
		}
	default:
		return errs.Unsupportedf("unknown data type %T", dt)
	}
	return nil
}
