package steg

// bitWriter packs bits into a preallocated byte slice (msb-first in each
// byte). Bits that do not complete a byte are dropped.
type bitWriter struct {
	buf  []byte
	pos  int
	byte byte
	n    uint8 // number of bits in byte (0..7)
}

func newBitWriter(buf []byte) bitWriter {
	return bitWriter{buf: buf}
}

// writeBit appends the low bit of bit.
func (bw *bitWriter) writeBit(bit byte) {
	bw.byte = bw.byte<<1 | bit&1
	bw.n++
	if bw.n == 8 {
		bw.buf[bw.pos] = bw.byte
		bw.pos++
		bw.byte = 0
		bw.n = 0
	}
}

// bitReader reads bits from a byte slice (msb-first in each byte).
type bitReader struct {
	data []byte
	idx  int
	bit  uint8 // bit position in current byte (0..7), msb-first
}

func newBitReader(data []byte) bitReader {
	return bitReader{data: data}
}

// done reports whether every bit has been consumed.
func (br *bitReader) done() bool {
	return br.idx >= len(br.data)
}

// readBitFast returns the next bit as 0 or 1. The caller must check done
// first.
func (br *bitReader) readBitFast() byte {
	b := (br.data[br.idx] >> (7 - br.bit)) & 1
	br.bit++
	if br.bit == 8 {
		br.bit = 0
		br.idx++
	}
	return b
}

// Bits expands data into its bitstream, one 0 or 1 per element, most
// significant bit of each byte first.
func Bits(data []byte) []byte {
	out := make([]byte, 0, len(data)*8)
	br := newBitReader(data)
	for !br.done() {
		out = append(out, br.readBitFast())
	}
	return out
}

// PackBits is the inverse of Bits. Only the low bit of each element is
// used, and a trailing run shorter than 8 bits is discarded.
func PackBits(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	bw := newBitWriter(out)
	for _, b := range bits {
		bw.writeBit(b)
	}
	return out
}
