package sortkey

import (
	"math"
	"unsafe"

	"github.com/daviszhen/osort/pkg/common"
	"github.com/daviszhen/osort/pkg/util"
)

func BSWAP32(x uint32) uint32 {
	return ((x & 0xff000000) >> 24) | ((x & 0x00ff0000) >> 8) |
		((x & 0x0000ff00) << 8) | ((x & 0x000000ff) << 24)

}

func BSWAP64(x uint64) uint64 {
	return ((x & 0xff00000000000000) >> 56) | ((x & 0x00ff000000000000) >> 40) |
		((x & 0x0000ff0000000000) >> 24) | ((x & 0x000000ff00000000) >> 8) |
		((x & 0x00000000ff000000) << 8) | ((x & 0x0000000000ff0000) << 24) |
		((x & 0x000000000000ff00) << 40) | ((x & 0x00000000000000ff) << 56)

}

func FlipSign(b uint8) uint8 {
	return b ^ 128
}

func encodeInt32(ptr unsafe.Pointer, value int32) {
	util.Store[uint32](BSWAP32(uint32(value)), ptr)
	util.Store[uint8](FlipSign(util.Load[uint8](ptr)), ptr)
}

func encodeInt64(ptr unsafe.Pointer, value int64) {
	util.Store[uint64](BSWAP64(uint64(value)), ptr)
	util.Store[uint8](FlipSign(util.Load[uint8](ptr)), ptr)
}

func encodeFloat64(ptr unsafe.Pointer, value float64) {
	bits := math.Float64bits(value)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	util.Store[uint64](BSWAP64(bits), ptr)
}

func encodeDate(ptr unsafe.Pointer, d *common.Date) {
	encodeInt32(ptr, d.Year)
	encodeInt32(util.PointerAdd(ptr, common.Int32Size), d.Month)
	encodeInt32(util.PointerAdd(ptr, 2*common.Int32Size), d.Day)
}

func encodeDecimal(ptr unsafe.Pointer, dec *common.Decimal) {
	whole, frac, ok := dec.WholeFrac()
	util.AssertFunc(ok)
	encodeInt64(ptr, whole)
	encodeInt64(util.PointerAdd(ptr, common.Int64Size), frac)
}

// KeyWriter encodes the key columns of one row into a fixed-width key
// slice. The encoded bytes compare with bytes.Compare in the order the
// layout demands: big-endian with flipped sign bits, bitwise inversion
// for descending columns, and a leading validity byte for nullable
// columns. The null byte is never inverted, so the null position is
// the same for ascending and descending columns.
type KeyWriter struct {
	_key    []byte
	_offset int
}

func NewKeyWriter(key []byte) *KeyWriter {
	return &KeyWriter{_key: key}
}

func (kw *KeyWriter) begin(col *Column) unsafe.Pointer {
	if col.HasNull {
		valid := byte(0)
		if col.Null == OBNT_NULLS_FIRST {
			valid = 1
		}
		kw._key[kw._offset] = valid
		kw._offset++
	}
	return util.PointerAdd(util.BytesSliceToPointer(kw._key), kw._offset)
}

func (kw *KeyWriter) finish(col *Column, size int) {
	if col.Order == OT_DESC {
		for i := 0; i < size; i++ {
			kw._key[kw._offset+i] = ^kw._key[kw._offset+i]
		}
	}
	kw._offset += size
}

// Null encodes a null value for a nullable column: the invalid byte
// followed by a zeroed payload.
func (kw *KeyWriter) Null(col *Column) {
	util.AssertFunc(col.HasNull)
	invalid := byte(1)
	if col.Null == OBNT_NULLS_FIRST {
		invalid = 0
	}
	kw._key[kw._offset] = invalid
	kw._offset++
	size := col.payloadSize()
	util.Fill[byte](kw._key[kw._offset:kw._offset+size], size, 0)
	kw._offset += size
}

func (kw *KeyWriter) Int32(col *Column, v int32) {
	ptr := kw.begin(col)
	encodeInt32(ptr, v)
	kw.finish(col, common.Int32Size)
}

func (kw *KeyWriter) Int64(col *Column, v int64) {
	ptr := kw.begin(col)
	encodeInt64(ptr, v)
	kw.finish(col, common.Int64Size)
}

func (kw *KeyWriter) Float64(col *Column, v float64) {
	ptr := kw.begin(col)
	encodeFloat64(ptr, v)
	kw.finish(col, common.Float64Size)
}

func (kw *KeyWriter) Date(col *Column, d *common.Date) {
	ptr := kw.begin(col)
	encodeDate(ptr, d)
	kw.finish(col, common.DateSize)
}

func (kw *KeyWriter) Decimal(col *Column, dec *common.Decimal) {
	ptr := kw.begin(col)
	encodeDecimal(ptr, dec)
	kw.finish(col, common.DecimalSize)
}

// Bytes encodes a byte-string column, truncated or zero-padded to the
// column width.
func (kw *KeyWriter) Bytes(col *Column, data []byte) {
	kw.begin(col)
	n := copy(kw._key[kw._offset:kw._offset+col.Width], data)
	util.Fill[byte](kw._key[kw._offset+n:kw._offset+col.Width], col.Width-n, 0)
	kw.finish(col, col.Width)
}

// Finish asserts the writer filled the whole key.
func (kw *KeyWriter) Finish(lay *Layout) {
	util.AssertFunc(kw._offset == lay.KeyWidth())
}
