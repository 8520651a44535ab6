package steg

import (
	"fmt"
	"unicode/utf8"
)

// Latin1Bytes narrows s to one byte per character. Characters above
// U+00FF have no single-byte form and are rejected rather than truncated.
func Latin1Bytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return nil, fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrNotLatin1, i)
			}
		}
		if r > 0xFF {
			return nil, fmt.Errorf("%w: %q at byte %d", ErrNotLatin1, r, i)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// Latin1String widens every byte of b to the character with the same code.
func Latin1String(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
