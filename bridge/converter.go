package bridge

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	carray "github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/monitoring"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// ConverterConfig holds configuration for a Converter.
type ConverterConfig struct {
	// Allocator receives copies of the array buffers. Nil hands the Go
	// slices to the runtime without copying.
	Allocator memory.Allocator

	// Logger receives a debug line per conversion and a warning per failure.
	Logger log.Logger

	// Metrics is optional.
	Metrics *monitoring.Metrics

	// Validate runs the runtime's full validation on every array produced
	// by ToArrow and every array passed to ViewOf, FromArrow and Borrow.
	Validate bool
}

// DefaultConverterConfig returns a zero-copy, non-validating configuration
// that discards logs and records no metrics.
func DefaultConverterConfig() *ConverterConfig {
	return &ConverterConfig{
		Logger: log.NewNopLogger(),
	}
}

// Converter wraps the package level conversions with logging, metrics and
// optional validation. It is safe for concurrent use.
type Converter struct {
	mem      memory.Allocator
	logger   log.Logger
	metrics  *monitoring.Metrics
	validate bool
}

// NewConverter creates a Converter. A nil config uses the defaults.
func NewConverter(config *ConverterConfig) *Converter {
	if config == nil {
		config = DefaultConverterConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Converter{
		mem:      config.Allocator,
		logger:   logger,
		metrics:  config.Metrics,
		validate: config.Validate,
	}
}

func (c *Converter) record(dir monitoring.Direction, typeName string, length int, start time.Time, err error) {
	if c.metrics != nil {
		c.metrics.RecordConversion(dir, typeName, length, time.Since(start), err)
	}
	if err != nil {
		level.Warn(c.logger).Log("msg", "conversion failed", "direction", dir, "type", typeName, "err", err)
		return
	}
	level.Debug(c.logger).Log("msg", "converted array", "direction", dir, "type", typeName, "len", length)
}

func typeNameOf(a carray.Array) string {
	if a == nil {
		return "nil"
	}
	if t := a.DataType(); t != nil {
		return t.ID().String()
	}
	return "nil"
}

func arrowTypeName(arr arrow.Array) string {
	if arr == nil {
		return "nil"
	}
	if t, err := typeFromArrow(arr.DataType()); err == nil {
		return t.ID().String()
	}
	return arr.DataType().ID().String()
}

// ToArrow converts a into a runtime array allocated from the configured
// allocator.
func (c *Converter) ToArrow(a carray.Array) (arrow.Array, error) {
	start := time.Now()
	typeName := typeNameOf(a)

	arr, err := toArrow(c.mem, a)
	if err == nil && c.validate {
		if err = validateFull(arr); err != nil {
			arr.Release()
			arr = nil
		}
	}

	length := 0
	if arr != nil {
		length = arr.Len()
	}
	c.record(monitoring.ToArrow, typeName, length, start, err)
	return arr, err
}

func (c *Converter) check(arr arrow.Array) error {
	if !c.validate || arr == nil {
		return nil
	}
	return validateFull(arr)
}

// ViewOf borrows arr without copying.
func (c *Converter) ViewOf(arr arrow.Array) (view.View, error) {
	start := time.Now()
	err := c.check(arr)
	var v view.View
	if err == nil {
		v, err = ViewOf(arr)
	}
	c.record(monitoring.FromArrow, arrowTypeName(arr), lenOf(arr), start, err)
	return v, err
}

// FromArrow copies arr into an owned array.
func (c *Converter) FromArrow(arr arrow.Array) (carray.Array, error) {
	start := time.Now()
	err := c.check(arr)
	var a carray.Array
	if err == nil {
		a, err = FromArrow(arr)
	}
	c.record(monitoring.FromArrow, arrowTypeName(arr), lenOf(arr), start, err)
	return a, err
}

// Borrow retains arr and views it.
func (c *Converter) Borrow(arr arrow.Array) (*Borrowed, error) {
	start := time.Now()
	err := c.check(arr)
	var b *Borrowed
	if err == nil {
		b, err = Borrow(arr)
	}
	c.record(monitoring.FromArrow, arrowTypeName(arr), lenOf(arr), start, err)
	return b, err
}

func lenOf(arr arrow.Array) int {
	if arr == nil {
		return 0
	}
	return arr.Len()
}
