package steg

import (
	"image"
	"image/draw"
)

// ToNRGBA copies any image.Image into a tightly packed *image.NRGBA with
// bounds starting at (0,0), so its Pix slice is a valid pixel buffer.
//
// NRGBA sources are copied row by row: going through the premultiplied
// color model would round the channels of translucent pixels and lose
// their low bits.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if s, ok := src.(*image.NRGBA); ok {
		rowLen := b.Dx() * channelsPerPixel
		for y := 0; y < b.Dy(); y++ {
			si := s.PixOffset(b.Min.X, b.Min.Y+y)
			di := y * dst.Stride
			copy(dst.Pix[di:di+rowLen], s.Pix[si:si+rowLen])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// EmbedImage embeds payload into a copy of img and returns the copy.
// img itself is never modified.
func EmbedImage(img image.Image, payload []byte) (*image.NRGBA, error) {
	dst := ToNRGBA(img)
	if err := Embed(dst.Pix, payload); err != nil {
		return nil, err
	}
	return dst, nil
}

// ExtractImage returns the payload hidden in img.
func ExtractImage(img image.Image) ([]byte, error) {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*channelsPerPixel {
		return Extract(n.Pix[:n.Stride*n.Rect.Dy()])
	}
	return Extract(ToNRGBA(img).Pix)
}

// ImageCapacity returns Capacity for the bounds of img.
func ImageCapacity(img image.Image) int {
	b := img.Bounds()
	return Capacity(b.Dx(), b.Dy())
}
