package record

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/VanDung-dev/HieraChain-Columnar/bridge"
	"github.com/VanDung-dev/HieraChain-Columnar/datatypes"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/typeinfo"
)

// RowFields returns the column fields of the row type T. T must be a
// struct with at least one exported field.
func RowFields[T any](opts typeinfo.Options) ([]datatypes.Field, error) {
	field, err := typeinfo.Infer[T]("row", opts)
	if err != nil {
		return nil, err
	}
	st, ok := field.DataType.(datatypes.Struct)
	if !ok {
		return nil, errs.Unsupportedf("row type must be a struct with exported fields, got %v", field.DataType)
	}
	return st.Fields, nil
}

// Schema returns the arrow schema of the row type T.
func Schema[T any](opts typeinfo.Options) (*arrow.Schema, error) {
	fields, err := RowFields[T](opts)
	if err != nil {
		return nil, err
	}
	return bridge.SchemaToArrow(fields)
}

// ValidateSchema checks that record has the expected column names and
// types, in order.
func ValidateSchema(record arrow.Record, expected *arrow.Schema) error {
	if record == nil {
		return errs.Unsupportedf("record is nil")
	}

	actual := record.Schema()
	if actual.NumFields() != expected.NumFields() {
		return errs.Unsupportedf("field count mismatch: got %d, expected %d",
			actual.NumFields(), expected.NumFields())
	}

	for i := 0; i < actual.NumFields(); i++ {
		actualField := actual.Field(i)
		expectedField := expected.Field(i)

		if actualField.Name != expectedField.Name {
			return errs.Unsupportedf("field %d name mismatch: got %s, expected %s",
				i, actualField.Name, expectedField.Name)
		}

		if !arrow.TypeEqual(actualField.Type, expectedField.Type) {
			return errs.Unsupportedf("field %s type mismatch: got %s, expected %s",
				actualField.Name, actualField.Type, expectedField.Type)
		}
	}

	return nil
}
