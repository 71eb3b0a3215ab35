// Package bridge converts between the owned array model, the borrowed view
// model and arrow-go v18 arrays.
//
// This package contains:
//   - data type, field and schema mappings in both directions (datatypes.go)
//   - owned arrays to runtime array data (toarrow.go)
//   - zero-copy views over runtime arrays (fromarrow.go)
//   - a Converter that adds an allocator, logging, metrics and validation
//     (converter.go)
//
// Everything that depends on the exact arrow-go release lives in
// runtime.go. Upgrading the runtime means revisiting that file and the
// buffer layouts documented next to each conversion.
//
// Converting an owned array hands its slices to the runtime without a
// copy unless the Converter is given an allocator. The array must not be
// used afterwards. A view returned by ViewOf aliases runtime memory and is
// valid only while the runtime array is retained; Borrow ties the two
// together.
package bridge
