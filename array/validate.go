package array

import (
	"github.com/VanDung-dev/HieraChain-Columnar/bits"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// Validate checks the layout invariants of a and its children: bitmap
// sizes, offset monotonicity, child lengths, fixed size divisibility,
// dictionary key ranges, run end order and union type ids.
func Validate(a Array) error {
	if a == nil {
		return errs.Unsupportedf("missing array")
	}
	n := a.Len()

	switch a := a.(type) {
	case Null:
		return nil
	case Boolean:
		if len(a.Values) != bits.BytesFor(a.Length) {
			return errs.Unsupportedf("boolean values have %d bytes, want %d", len(a.Values), bits.BytesFor(a.Length))
		}
		return checkValidity(a.Validity, n)
	case Int8:
		return checkValidity(a.Validity, n)
	case Int16:
		return checkValidity(a.Validity, n)
	case Int32:
		return checkValidity(a.Validity, n)
	case Int64:
		return checkValidity(a.Validity, n)
	case UInt8:
		return checkValidity(a.Validity, n)
	case UInt16:
		return checkValidity(a.Validity, n)
	case UInt32:
		return checkValidity(a.Validity, n)
	case UInt64:
		return checkValidity(a.Validity, n)
	case Float16:
		return checkValidity(a.Validity, n)
	case Float32:
		return checkValidity(a.Validity, n)
	case Float64:
		return checkValidity(a.Validity, n)
	case Date32:
		return checkValidity(a.Validity, n)
	case Date64:
		return checkValidity(a.Validity, n)
	case YearMonthInterval:
		return checkValidity(a.Validity, n)
	case DayTimeInterval:
		return checkValidity(a.Validity, n)
	case MonthDayNanoInterval:
		return checkValidity(a.Validity, n)
	case Time32:
		return checkValidity(a.Validity, n)
	case Time64:
		return checkValidity(a.Validity, n)
	case Duration:
		return checkValidity(a.Validity, n)
	case Timestamp:
		return checkValidity(a.Validity, n)
	case Decimal128:
		return checkValidity(a.Validity, n)
	case Utf8:
		return checkBytes(Bytes[int32](a))
	case LargeUtf8:
		return checkBytes(Bytes[int64](a))
	case Binary:
		return checkBytes(Bytes[int32](a))
	case LargeBinary:
		return checkBytes(Bytes[int64](a))
	case Utf8View:
		return checkBytesViews(BytesViews(a))
	case BinaryView:
		return checkBytesViews(BytesViews(a))
	case FixedSizeBinary:
		if err := CheckDivisible("fixed size binary data", len(a.Data), a.N); err != nil {
			return err
		}
		return checkValidity(a.Validity, n)
	case Struct:
		for _, f := range a.Fields {
			if f.Array == nil {
				return errs.Unsupportedf("struct field %q has no array", f.Meta.Name)
			}
			if f.Array.Len() != a.Length {
				return errs.Unsupportedf("struct field %q has length %d, want %d", f.Meta.Name, f.Array.Len(), a.Length)
			}
			if err := Validate(f.Array); err != nil {
				return err
			}
		}
		return checkValidity(a.Validity, n)
	case List:
		return checkList(ListOf[int32](a))
	case LargeList:
		return checkList(ListOf[int64](a))
	case FixedSizeList:
		if a.Elements == nil {
			return errs.Unsupportedf("fixed size list has no elements")
		}
		if err := CheckDivisible("fixed size list elements", a.Elements.Len(), a.N); err != nil {
			return err
		}
		if a.Elements.Len() != a.Length*int(a.N) {
			return errs.Unsupportedf("fixed size list of length %d and size %d has %d elements", a.Length, a.N, a.Elements.Len())
		}
		if err := Validate(a.Elements); err != nil {
			return err
		}
		return checkValidity(a.Validity, n)
	case Dictionary:
		return checkDictionary(a)
	case RunEndEncoded:
		return checkRunEnds(a)
	case Map:
		logical, err := a.IntoLogicalArray()
		if err != nil {
			return err
		}
		if err := checkOffsets(logical.Offsets, logical.Entries.Length); err != nil {
			return err
		}
		if err := Validate(logical.Entries); err != nil {
			return err
		}
		return checkValidity(a.Validity, n)
	case Union:
		return checkUnion(a)
	}
	return errs.Unsupportedf("cannot validate array of type %T", a)
}

// CheckDivisible reports an Unsupported error unless length is a multiple
// of a non-negative size.
func CheckDivisible(what string, length int, size int32) error {
	if size < 0 {
		return errs.Unsupportedf("%s: negative size %d", what, size)
	}
	if size == 0 {
		if length != 0 {
			return errs.Unsupportedf("%s: length %d is not divisible by size 0", what, length)
		}
		return nil
	}
	if length%int(size) != 0 {
		return errs.Unsupportedf("%s: length %d is not divisible by size %d", what, length, size)
	}
	return nil
}

func checkValidity(validity []byte, n int) error {
	if validity != nil && len(validity) != bits.BytesFor(n) {
		return errs.Unsupportedf("validity has %d bytes for %d elements, want %d", len(validity), n, bits.BytesFor(n))
	}
	return nil
}

func checkOffsets[O int32 | int64](offsets []O, end int) error {
	if len(offsets) == 0 {
		if end != 0 {
			return errs.Unsupportedf("missing offsets for %d values", end)
		}
		return nil
	}
	if offsets[0] != 0 {
		return errs.Unsupportedf("offsets start at %d, want 0", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return errs.Unsupportedf("offsets decrease at %d: %d < %d", i, offsets[i], offsets[i-1])
		}
	}
	if last := int(offsets[len(offsets)-1]); last != end {
		return errs.Unsupportedf("last offset %d does not match %d values", last, end)
	}
	return nil
}

func checkBytes[O int32 | int64](b Bytes[O]) error {
	if err := checkOffsets(b.Offsets, len(b.Data)); err != nil {
		return err
	}
	return checkValidity(b.Validity, offsetsLen(b.Offsets))
}

func checkBytesViews(b BytesViews) error {
	for i, v := range b.Views {
		size := view.ViewSize(v)
		if size <= view.InlineLimit {
			continue
		}
		buf, off := view.ViewRef(v)
		if buf >= len(b.Buffers) || off+size > len(b.Buffers[buf]) {
			return errs.Unsupportedf("view %d points outside its buffers", i)
		}
	}
	return checkValidity(b.Validity, len(b.Views))
}

func checkList[O int32 | int64](l ListOf[O]) error {
	if l.Elements == nil {
		return errs.Unsupportedf("list has no elements")
	}
	if err := checkOffsets(l.Offsets, l.Elements.Len()); err != nil {
		return err
	}
	if err := Validate(l.Elements); err != nil {
		return err
	}
	return checkValidity(l.Validity, offsetsLen(l.Offsets))
}

func checkDictionary(a Dictionary) error {
	if a.Keys == nil || a.Values == nil {
		return errs.Unsupportedf("dictionary is missing its keys or values")
	}
	if !datatypes.IsInteger(a.Keys.DataType()) {
		return errs.Unsupportedf("dictionary keys must be integers, got %s", a.Keys.DataType())
	}
	if err := Validate(a.Keys); err != nil {
		return err
	}
	if err := Validate(a.Values); err != nil {
		return err
	}
	keys := a.Keys.AsView()
	validity := view.ValidityOf(keys)
	for i := 0; i < keys.Len(); i++ {
		if !view.IsValid(validity, i) {
			continue
		}
		k, _ := view.IntAt(keys, i)
		if k < 0 || k >= int64(a.Values.Len()) {
			return errs.Unsupportedf("dictionary key %d at %d is outside %d values", k, i, a.Values.Len())
		}
	}
	return nil
}

func checkRunEnds(a RunEndEncoded) error {
	if a.RunEnds == nil || a.Values == nil {
		return errs.Unsupportedf("run-end-encoded array is missing its run ends or values")
	}
	switch a.RunEnds.DataType() {
	case datatypes.Int16, datatypes.Int32, datatypes.Int64:
	default:
		return errs.Unsupportedf("run ends must be Int16, Int32 or Int64, got %s", a.RunEnds.DataType())
	}
	runEnds := a.RunEnds.AsView()
	if view.ValidityOf(runEnds) != nil {
		return errs.Unsupportedf("run ends must not have a validity bitmap")
	}
	if runEnds.Len() != a.Values.Len() {
		return errs.Unsupportedf("%d run ends for %d values", runEnds.Len(), a.Values.Len())
	}
	prev := int64(0)
	for i := 0; i < runEnds.Len(); i++ {
		end, _ := view.IntAt(runEnds, i)
		if end <= prev {
			return errs.Unsupportedf("run ends must be positive and increasing, got %d after %d", end, prev)
		}
		prev = end
	}
	return Validate(a.Values)
}

func checkUnion(a Union) error {
	variants := make([]datatypes.UnionVariant, len(a.Fields))
	children := make(map[int8]Array, len(a.Fields))
	for i, f := range a.Fields {
		if f.Array == nil {
			return errs.Unsupportedf("union field %q has no array", f.Meta.Name)
		}
		variants[i] = datatypes.UnionVariant{TypeID: f.TypeID}
		children[f.TypeID] = f.Array
	}
	mode := datatypes.Sparse
	if a.Offsets != nil {
		mode = datatypes.Dense
	}
	if err := (datatypes.Union{Variants: variants, Mode: mode}).Validate(); err != nil {
		return err
	}
	if a.Offsets != nil && len(a.Offsets) != len(a.Types) {
		return errs.Unsupportedf("dense union has %d types but %d offsets", len(a.Types), len(a.Offsets))
	}
	for i, tid := range a.Types {
		child, ok := children[tid]
		if !ok {
			return errs.Unsupportedf("union type id %d at %d has no field", tid, i)
		}
		if a.Offsets != nil {
			if off := a.Offsets[i]; off < 0 || int(off) >= child.Len() {
				return errs.Unsupportedf("union offset %d at %d is outside field of length %d", off, i, child.Len())
			}
		}
	}
	for _, f := range a.Fields {
		if a.Offsets == nil && f.Array.Len() != len(a.Types) {
			return errs.Unsupportedf("sparse union field %q has length %d, want %d", f.Meta.Name, f.Array.Len(), len(a.Types))
		}
		if err := Validate(f.Array); err != nil {
			return err
		}
	}
	return nil
}
