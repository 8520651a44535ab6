package steg

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
)

// Marker is appended to every payload and marks where it ends.
const Marker = "[END]"

const (
	channelsPerPixel = 4 // R, G, B, A
	usableChannels   = 3 // R, G, B

	// 8 pixels carry 24 bits, i.e. 3 whole bytes. Extraction stripes are
	// multiples of this so each worker owns whole output bytes.
	groupPixels = 8

	// below this many pixels extraction stays on the calling goroutine.
	parallelMinPixels = 1 << 18
)

var marker = []byte(Marker)

func checkBuffer(pix []byte) error {
	if len(pix)%channelsPerPixel != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedBuffer, len(pix), channelsPerPixel)
	}
	return nil
}

// frame returns payload followed by Marker in a new slice.
func frame(payload []byte) []byte {
	framed := make([]byte, 0, len(payload)+len(marker))
	framed = append(framed, payload...)
	return append(framed, marker...)
}

// Embed writes payload and the end marker into the low bits of the R, G
// and B channels of pix, an interleaved RGBA buffer, in place.
//
// The capacity check runs before any byte is written, so on error pix is
// unchanged. Alpha bytes and every pixel past the last payload bit keep
// their original values.
func Embed(pix []byte, payload []byte) error {
	if err := checkBuffer(pix); err != nil {
		return err
	}

	framed := frame(payload)
	need := len(framed) * 8
	have := len(pix) / channelsPerPixel * usableChannels
	if need > have {
		return &CapacityError{Need: need, Have: have}
	}

	br := newBitReader(framed)
	for i := 0; i < len(pix); i += channelsPerPixel {
		for c := 0; c < usableChannels; c++ {
			if br.done() {
				return nil
			}
			pix[i+c] = pix[i+c]&0xFE | br.readBitFast()
		}
	}
	return nil
}

// Extract reads the low bit of the R, G and B channels of every pixel in
// pix, packs them into bytes and returns the bytes before the first
// occurrence of Marker. pix is not modified.
//
// The whole buffer is always scanned. If the marker never appears the
// error is ErrNoPayloadFound.
func Extract(pix []byte) ([]byte, error) {
	if err := checkBuffer(pix); err != nil {
		return nil, err
	}

	data := unpackLSB(pix)
	end := bytes.Index(data, marker)
	if end < 0 {
		return nil, ErrNoPayloadFound
	}

	payload := make([]byte, end)
	copy(payload, data[:end])
	return payload, nil
}

// unpackLSB returns the packed R/G/B low bits of pix. Large buffers are
// split into stripes of whole 8-pixel groups and packed in parallel.
func unpackLSB(pix []byte) []byte {
	pixels := len(pix) / channelsPerPixel
	out := make([]byte, pixels*usableChannels/8)

	workers := runtime.NumCPU()
	if pixels < parallelMinPixels || workers < 2 {
		unpackStripe(pix, out, 0, pixels, nil)
		return out
	}

	groups := pixels / groupPixels
	perWorker := (groups + workers - 1) / workers * groupPixels

	var wg sync.WaitGroup
	for p0 := 0; p0 < pixels; p0 += perWorker {
		p1 := min(p0+perWorker, pixels)
		wg.Add(1)
		go unpackStripe(pix, out, p0, p1, &wg)
	}
	wg.Wait()
	return out
}

// unpackStripe packs pixels [p0, p1) into out. p0 must be a multiple of
// groupPixels; a trailing partial byte is dropped.
func unpackStripe(pix, out []byte, p0, p1 int, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}

	start := p0 * usableChannels / 8
	end := p1 * usableChannels / 8
	bw := newBitWriter(out[start:end])
	for p := p0; p < p1; p++ {
		i := p * channelsPerPixel
		bw.writeBit(pix[i])
		bw.writeBit(pix[i+1])
		bw.writeBit(pix[i+2])
	}
}
