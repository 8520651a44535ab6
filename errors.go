package steg

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge is returned by Embed when the framed payload needs
	// more bits than the buffer has usable channels. The buffer is left
	// untouched.
	ErrPayloadTooLarge = errors.New("steg: payload too large for image")

	// ErrNoPayloadFound is returned by Extract when the end marker does not
	// occur anywhere in the buffer: nothing was embedded, or the pixels were
	// altered (for example by lossy re-encoding).
	ErrNoPayloadFound = errors.New("steg: no hidden payload found")

	// ErrMalformedBuffer reports a pixel buffer whose length is not a whole
	// number of RGBA pixels.
	ErrMalformedBuffer = errors.New("steg: malformed pixel buffer")

	// ErrNotLatin1 reports text that cannot be narrowed to one byte per
	// character.
	ErrNotLatin1 = errors.New("steg: text contains characters above U+00FF")
)

// CapacityError describes a failed capacity check in bits.
// It matches ErrPayloadTooLarge with errors.Is.
type CapacityError struct {
	Need int // bits required by payload plus marker
	Have int // usable bits in the buffer
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: need %d bits, have %d", ErrPayloadTooLarge, e.Need, e.Have)
}

func (e *CapacityError) Unwrap() error { return ErrPayloadTooLarge }
