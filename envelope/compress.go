package envelope

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Messages are capped at a few thousand characters, so a decompressed
// size far beyond that means a hostile or corrupt frame.
const maxDecompressed = 16 << 20

func compress(raw []byte) ([]byte, error) {
	var b bytes.Buffer
	enc, err := zstd.NewWriter(&b, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(maxDecompressed))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	plain, err := io.ReadAll(io.LimitReader(dec, maxDecompressed+1))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrMalformed, err)
	}
	if len(plain) > maxDecompressed {
		return nil, fmt.Errorf("%w: decompressed message exceeds %d bytes", ErrMalformed, maxDecompressed)
	}
	return plain, nil
}
