package steg

import (
	"bytes"
	"testing"
)

func benchmarkImage(b *testing.B) []byte {
	b.Helper()
	return makeTestImage(1920, 1080).Pix
}

func BenchmarkEmbed(b *testing.B) {
	pix := benchmarkImage(b)
	payload := bytes.Repeat([]byte("benchmark payload "), 500)

	b.SetBytes(int64(len(payload)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := Embed(pix, payload); err != nil {
			b.Fatalf("embed failed: %v", err)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	pix := benchmarkImage(b)
	if err := Embed(pix, []byte("benchmark")); err != nil {
		b.Fatalf("embed failed: %v", err)
	}

	b.SetBytes(int64(len(pix)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Extract(pix); err != nil {
			b.Fatalf("extract failed: %v", err)
		}
	}
}

func BenchmarkUnpackSerial(b *testing.B) {
	pix := benchmarkImage(b)
	pixels := len(pix) / channelsPerPixel
	out := make([]byte, pixels*usableChannels/8)

	b.SetBytes(int64(len(pix)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		unpackStripe(pix, out, 0, pixels, nil)
	}
}
