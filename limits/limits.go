// Package limits holds the checks a front end runs before calling the
// codec: message length, carrier dimensions and file size, and passphrase
// length. The codec itself only checks capacity.
package limits

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrEmptyMessage       = errors.New("limits: message is empty")
	ErrMessageTooLong     = errors.New("limits: message too long")
	ErrImageTooSmall      = errors.New("limits: image dimensions are too small")
	ErrImageTooLarge      = errors.New("limits: image dimensions are too large")
	ErrFileTooLarge       = errors.New("limits: file too large")
	ErrPassphraseRequired = errors.New("limits: passphrase required")
	ErrPassphraseTooShort = errors.New("limits: passphrase too short")
)

type Limits struct {
	MaxMessageLen int   // characters
	MinDimension  int   // pixels, each side
	MaxDimension  int   // pixels; the area limit is MaxDimension squared
	MaxFileSize   int64 // bytes
	MinPassphrase int   // characters
}

// Default is the set of limits the steg command applies.
var Default = Limits{
	MaxMessageLen: 10000,
	MinDimension:  8,
	MaxDimension:  30000,
	MaxFileSize:   10 << 20,
	MinPassphrase: 8,
}

func (l Limits) CheckMessage(msg string) error {
	n := utf8.RuneCountInString(msg)
	if n == 0 {
		return ErrEmptyMessage
	}
	if n > l.MaxMessageLen {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrMessageTooLong, n, l.MaxMessageLen)
	}
	return nil
}

// CheckDimensions rejects images with a side shorter than MinDimension or
// an area larger than MaxDimension x MaxDimension.
func (l Limits) CheckDimensions(w, h int) error {
	if w < l.MinDimension || h < l.MinDimension {
		return fmt.Errorf("%w: %dx%d, minimum is %dx%d", ErrImageTooSmall, w, h, l.MinDimension, l.MinDimension)
	}
	if int64(w)*int64(h) > int64(l.MaxDimension)*int64(l.MaxDimension) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, w, h, int64(l.MaxDimension)*int64(l.MaxDimension))
	}
	return nil
}

func (l Limits) CheckFileSize(n int64) error {
	if n > l.MaxFileSize {
		return fmt.Errorf("%w: %.1fMB exceeds maximum limit of %.0fMB", ErrFileTooLarge, mb(n), mb(l.MaxFileSize))
	}
	return nil
}

func (l Limits) CheckPassphrase(p string) error {
	n := utf8.RuneCountInString(p)
	if n == 0 {
		return ErrPassphraseRequired
	}
	if n < l.MinPassphrase {
		return fmt.Errorf("%w: must be at least %d characters", ErrPassphraseTooShort, l.MinPassphrase)
	}
	return nil
}

func mb(n int64) float64 {
	return float64(n) / (1 << 20)
}
