// Package record converts slices of Go structs into arrow records and
// back into owned columns.
//
// Each exported field of the row type becomes one column, named and typed
// the way typeinfo infers it. Columns are converted to the runtime
// concurrently through a bridge.Converter, so logging, metrics and the
// allocator configured there apply to every column.
package record
