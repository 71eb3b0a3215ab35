// Package monitoring provides Prometheus metrics for array conversions.
// This package implements:
// - Conversion counters by direction and data type
// - Error counters by error kind
// - Conversion latency and size histograms
package monitoring
