package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"

	"github.com/svanichkin/steg"
)

// Format names an image encoding. Values match the names registered with
// package image, so the format reported by image.Decode converts directly.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	QOI  Format = "qoi"
)

var (
	ErrUnknownFormat = errors.New("imageio: unknown image format")
	ErrLossyFormat   = errors.New("imageio: format would destroy hidden data")
)

var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".qoi":  QOI,
}

// Lossless reports whether f stores R, G and B channels bit for bit.
func (f Format) Lossless() bool {
	switch f {
	case PNG, BMP, QOI:
		return true
	}
	return false
}

// Ext returns the canonical file extension for f, including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// FormatFromPath picks the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Decode reads an image in any registered format and returns its pixels
// as a tightly packed NRGBA image.
func Decode(r io.Reader) (*image.NRGBA, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnknownFormat, err)
		}
		return nil, "", fmt.Errorf("imageio: decode %s: %w", name, err)
	}
	return steg.ToNRGBA(img), Format(name), nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (*image.NRGBA, Format, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer in.Close()

	return Decode(in)
}

// DecodeConfig returns dimensions and format without decoding pixels.
func DecodeConfig(r io.Reader) (image.Config, Format, error) {
	cfg, name, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return image.Config{}, "", fmt.Errorf("%w: %v", ErrUnknownFormat, err)
		}
		return image.Config{}, "", fmt.Errorf("imageio: decode %s config: %w", name, err)
	}
	return cfg, Format(name), nil
}

// Encode writes img to w as f.
//
// BMP stores 32-bit pixels with a plain info header, so alpha reads back
// as opaque; the R, G and B bits are kept. The QOI encoder converts
// through premultiplied color, which rounds translucent pixels, so QOI
// is refused for images that are not fully opaque.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case QOI:
		if !opaque(img) {
			return fmt.Errorf("%w: qoi cannot keep translucent pixels exact", ErrLossyFormat)
		}
		return qoi.Encode(w, img)
	case JPEG, GIF:
		return fmt.Errorf("%w: %s", ErrLossyFormat, f)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// EncodeFile writes img to path as f. On failure the partial file is
// removed.
func EncodeFile(path string, img image.Image, f Format) (err error) {
	if !f.Lossless() {
		// fail before creating the file
		return Encode(io.Discard, img, f)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return Encode(out, img, f)
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
