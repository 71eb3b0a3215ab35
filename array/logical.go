package array

import (
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// LogicalMap is a Map normalized into the physical arrow layout: a list of
// non-nullable two-field entries structs.
type LogicalMap struct {
	EntriesName string
	Sorted      bool
	Validity    []byte
	Offsets     []int32
	Entries     Struct
}

// IntoLogicalArray pairs the keys and values into the entries struct.
func (a Map) IntoLogicalArray() (LogicalMap, error) {
	if a.Keys == nil || a.Values == nil {
		return LogicalMap{}, errs.Unsupportedf("map is missing its keys or values")
	}
	if a.Keys.Len() != a.Values.Len() {
		return LogicalMap{}, errs.Unsupportedf("map has %d keys but %d values", a.Keys.Len(), a.Values.Len())
	}
	return LogicalMap{
		EntriesName: a.Meta.EntriesName,
		Sorted:      a.Meta.Sorted,
		Validity:    a.Validity,
		Offsets:     a.Offsets,
		Entries: Struct{
			Length: a.Keys.Len(),
			Fields: []StructField{
				{Meta: a.Meta.Keys, Array: a.Keys},
				{Meta: a.Meta.Values, Array: a.Values},
			},
		},
	}, nil
}
