package builder

import (
	"encoding/binary"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/VanDung-dev/HieraChain-Columnar/array"
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
	"github.com/VanDung-dev/HieraChain-Columnar/view"
)

// bytesOf accepts strings, byte slices and byte arrays such as uuid.UUID.
func bytesOf(v any) ([]byte, bool) {
	switch x := v.(type) {
	case string:
		return []byte(x), true
	case []byte:
		return x, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return []byte(rv.String()), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b, true
		}
	}
	return nil, false
}

func typeName(utf8 bool) string {
	if utf8 {
		return "Utf8"
	}
	return "Binary"
}

type bytesPayload[O int32 | int64] struct {
	offsets []O
	data    []byte
}

type bytesBuilder[O int32 | int64] struct {
	utf8    bool
	payload bytesPayload[O]
	build   func(bytesPayload[O]) array.Array
}

func newBytesBuilder[O int32 | int64](utf8 bool, build func(bytesPayload[O]) array.Array) *bytesBuilder[O] {
	return &bytesBuilder[O]{
		utf8:    utf8,
		payload: bytesPayload[O]{offsets: []O{0}},
		build:   build,
	}
}

func (b *bytesBuilder[O]) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	data, ok := bytesOf(v)
	if !ok {
		return mismatch(v, typeName(b.utf8))
	}
	if b.utf8 && !utf8.Valid(data) {
		return errs.Unsupportedf("value is not valid UTF-8")
	}
	end := int64(len(b.payload.data)) + int64(len(data))
	if int64(O(end)) != end {
		return errs.Unsupportedf("%d bytes of data overflow the offset type", end)
	}
	b.payload.data = append(b.payload.data, data...)
	b.payload.offsets = append(b.payload.offsets, O(end))
	return nil
}

func (b *bytesBuilder[O]) PushDefault() error {
	b.payload.offsets = append(b.payload.offsets, b.payload.offsets[len(b.payload.offsets)-1])
	return nil
}

func (b *bytesBuilder[O]) Len() int { return len(b.payload.offsets) - 1 }

func (b *bytesBuilder[O]) BuildArray() (array.Array, error) {
	payload := b.payload
	if payload.data == nil {
		payload.data = []byte{}
	}
	b.payload = bytesPayload[O]{offsets: []O{0}}
	return b.build(payload), nil
}

// viewBuilder stores values of up to view.InlineLimit bytes inside the
// view and appends longer ones to a single data buffer.
type viewBuilder struct {
	utf8  bool
	views [][16]byte
	data  []byte
}

func (b *viewBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	data, ok := bytesOf(v)
	if !ok {
		return mismatch(v, typeName(b.utf8)+"View")
	}
	if b.utf8 && !utf8.Valid(data) {
		return errs.Unsupportedf("value is not valid UTF-8")
	}
	if len(data) > math.MaxInt32 || len(b.data)+len(data) > math.MaxInt32 {
		return errs.Unsupportedf("%d bytes of view data overflow int32", len(b.data)+len(data))
	}

	var vw [16]byte
	binary.LittleEndian.PutUint32(vw[0:4], uint32(len(data)))
	if len(data) <= view.InlineLimit {
		copy(vw[4:], data)
	} else {
		copy(vw[4:8], data)
		binary.LittleEndian.PutUint32(vw[8:12], 0)
		binary.LittleEndian.PutUint32(vw[12:16], uint32(len(b.data)))
		b.data = append(b.data, data...)
	}
	b.views = append(b.views, vw)
	return nil
}

func (b *viewBuilder) PushDefault() error {
	b.views = append(b.views, [16]byte{})
	return nil
}

func (b *viewBuilder) Len() int { return len(b.views) }

func (b *viewBuilder) BuildArray() (array.Array, error) {
	views := b.views
	if views == nil {
		views = [][16]byte{}
	}
	var buffers [][]byte
	if len(b.data) > 0 {
		buffers = [][]byte{b.data}
	}
	b.views, b.data = nil, nil

	if b.utf8 {
		return array.Utf8View{Views: views, Buffers: buffers}, nil
	}
	return array.BinaryView{Views: views, Buffers: buffers}, nil
}

type fixedSizeBinaryBuilder struct {
	width int
	n     int
	data  []byte
}

func (b *fixedSizeBinaryBuilder) PushValue(v any) error {
	v, err := deref(v)
	if err != nil {
		return err
	}
	data, ok := bytesOf(v)
	if !ok {
		return mismatch(v, "FixedSizeBinary")
	}
	if len(data) != b.width {
		return errs.Unsupportedf("value of %d bytes does not match FixedSizeBinary(%d)", len(data), b.width)
	}
	b.data = append(b.data, data...)
	b.n++
	return nil
}

func (b *fixedSizeBinaryBuilder) PushDefault() error {
	b.data = append(b.data, make([]byte, b.width)...)
	b.n++
	return nil
}

func (b *fixedSizeBinaryBuilder) Len() int { return b.n }

func (b *fixedSizeBinaryBuilder) BuildArray() (array.Array, error) {
	data := b.data
	if data == nil {
		data = []byte{}
	}
	b.data, b.n = nil, 0
	return array.FixedSizeBinary{N: int32(b.width), Data: data}, nil
}
