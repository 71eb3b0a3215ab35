package bridge

import (
	"fmt"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// Glue for arrow-go v18. Buffer ownership follows the runtime's reference
// counting: array.NewData retains every buffer and child it is given, so
// callers release their own references right after building a Data.

// bytesOf reinterprets s as its raw little endian bytes.
func bytesOf[T any](s []T) []byte {
	if s == nil {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// sliceOf reinterprets elements [offset, offset+n) of a runtime buffer. A
// buffer that is not aligned for T is copied instead of aliased.
func sliceOf[T any](b []byte, offset, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if n == 0 {
		return nil, nil
	}
	start, end := offset*size, (offset+n)*size
	if offset < 0 || end > len(b) {
		return nil, errs.New(errs.ArrowError, "buffer of %d bytes is too short for %d elements of %d bytes at offset %d", len(b), n, size, offset)
	}
	raw := b[start:end]
	p := unsafe.Pointer(unsafe.SliceData(raw))
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		out := make([]T, n)
		copy(bytesOf(out), raw)
		return out, nil
	}
	return unsafe.Slice((*T)(p), n), nil
}

// bufferBytes returns buffer i of d, or nil when it is absent.
func bufferBytes(d arrow.ArrayData, i int) []byte {
	bufs := d.Buffers()
	if i >= len(bufs) || bufs[i] == nil {
		return nil
	}
	return bufs[i].Bytes()
}

// validityOf exposes buffer 0 whenever the runtime allocated one, even if
// it holds no nulls.
func validityOf(d arrow.ArrayData) *view.BitsWithOffset {
	bufs := d.Buffers()
	if len(bufs) == 0 || bufs[0] == nil {
		return nil
	}
	return &view.BitsWithOffset{Offset: d.Offset(), Data: bufs[0].Bytes()}
}

// newBuffer wraps b. Without an allocator the Go slice becomes the buffer
// memory; with one, b is copied into allocator memory.
func newBuffer(mem memory.Allocator, b []byte) *memory.Buffer {
	if b == nil {
		return nil
	}
	if mem == nil {
		return memory.NewBufferBytes(b)
	}
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(len(b))
	copy(buf.Bytes(), b)
	return buf
}

func releaseBuffers(bufs []*memory.Buffer) {
	for _, b := range bufs {
		if b != nil {
			b.Release()
		}
	}
}

func releaseData[D arrow.ArrayData](data []D) {
	for _, d := range data {
		d.Release()
	}
}

// newData builds a Data and drops the caller's references to bufs and
// children.
func newData(dt arrow.DataType, length int, bufs []*memory.Buffer, children []*array.Data, nulls int) *array.Data {
	childData := make([]arrow.ArrayData, len(children))
	for i, c := range children {
		childData[i] = c
	}
	d := array.NewData(dt, length, bufs, childData, nulls, 0)
	releaseBuffers(bufs)
	releaseData(children)
	return d
}

// newDictionaryData builds dictionary encoded Data from index data and
// dictionary values, dropping the caller's references to both.
func newDictionaryData(dt *arrow.DictionaryType, keys, values *array.Data) *array.Data {
	d := array.NewDataWithDictionary(dt, keys.Len(), keys.Buffers(), keys.NullN(), keys.Offset(), values)
	keys.Release()
	values.Release()
	return d
}

// sliceData returns a zero-copy slice of d. The caller releases it.
func sliceData(d arrow.ArrayData, offset, length int) arrow.ArrayData {
	return array.NewSliceData(d, int64(offset), int64(offset+length))
}

// makeArray wraps d in its typed array. The runtime panics on buffers that
// do not match the type; that panic becomes an ArrowError.
func makeArray(d arrow.ArrayData) (arr arrow.Array, err error) {
	defer func() {
		if r := recover(); r != nil {
			arr = nil
			err = errs.Arrow(fmt.Errorf("%v", r), "runtime rejected %s data", d.DataType())
		}
	}()
	return array.MakeFromData(d), nil
}

type fullValidator interface {
	ValidateFull() error
}

// validateFull runs the runtime's own full validation when the array type
// provides one.
func validateFull(arr arrow.Array) (err error) {
	v, ok := arr.(fullValidator)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = errs.Arrow(fmt.Errorf("%v", r), "runtime validation of %s panicked", arr.DataType())
		}
	}()
	if err := v.ValidateFull(); err != nil {
		return errs.Arrow(err, "runtime validation of %s failed", arr.DataType())
	}
	return nil
}
