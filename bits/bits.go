// Package bits provides the bit-packed vector primitives used by validity
// bitmaps and boolean value buffers.
//
// Bit i lives in bit i%8 of byte i/8 (LSB numbering), which is the layout
// the Arrow format uses.
package bits

import (
	"fmt"
	mathbits "math/bits"
)

// BytesFor returns the number of bytes needed to hold n bits.
func BytesFor(n int) int {
	return (n + 7) / 8
}

// Get reads bit idx of buf. It panics if idx/8 is not a valid byte index.
func Get(buf []byte, idx int) bool {
	return buf[idx/8]&(1<<(idx%8)) != 0
}

// Set writes bit idx of buf in place. It panics if idx/8 is not a valid
// byte index.
func Set(buf []byte, idx int, value bool) {
	if value {
		buf[idx/8] |= 1 << (idx % 8)
	} else {
		buf[idx/8] &^= 1 << (idx % 8)
	}
}

// Push appends one bit to a growable bit vector whose logical length is
// tracked in *n. A byte is appended when *n is a multiple of 8, before the
// bit is written.
//
// Push panics if len(*buf) != BytesFor(*n) on entry.
func Push(buf *[]byte, n *int, value bool) {
	if want := BytesFor(*n); want != len(*buf) {
		panic(fmt.Sprintf("bits: invalid bit vector: %d bits require %d bytes, found %d", *n, want, len(*buf)))
	}
	if *n%8 == 0 {
		*buf = append(*buf, 0)
	}
	Set(*buf, *n, value)
	*n++
}

// CountSet returns the number of set bits in [offset, offset+n).
func CountSet(buf []byte, offset, n int) int {
	count := 0
	i := offset
	end := offset + n
	for ; i < end && i%8 != 0; i++ {
		if Get(buf, i) {
			count++
		}
	}
	for ; i+8 <= end; i += 8 {
		count += mathbits.OnesCount8(buf[i/8])
	}
	for ; i < end; i++ {
		if Get(buf, i) {
			count++
		}
	}
	return count
}

// Copy copies n bits of src starting at srcOffset into dst starting at
// dstOffset. dst must already be large enough.
func Copy(dst []byte, dstOffset int, src []byte, srcOffset, n int) {
	if dstOffset%8 == 0 && srcOffset%8 == 0 {
		whole := n / 8
		copy(dst[dstOffset/8:dstOffset/8+whole], src[srcOffset/8:srcOffset/8+whole])
		for i := whole * 8; i < n; i++ {
			Set(dst, dstOffset+i, Get(src, srcOffset+i))
		}
		return
	}
	for i := 0; i < n; i++ {
		Set(dst, dstOffset+i, Get(src, srcOffset+i))
	}
}

// Realign returns a fresh ceil(n/8) byte vector holding bits
// [offset, offset+n) of src, starting at bit 0.
func Realign(src []byte, offset, n int) []byte {
	out := make([]byte, BytesFor(n))
	Copy(out, 0, src, offset, n)
	return out
}
