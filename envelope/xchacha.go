package envelope

import (
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// Sealed layout before base64: version(1) | salt(16) | nonce(24) | ciphertext+tag.
// The version byte is authenticated as additional data.
const (
	xchachaVersion = 0x01
	scryptSaltLen  = 16

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
}

func sealXChaCha(data []byte, passphrase string, r io.Reader) ([]byte, error) {
	head := make([]byte, 1+scryptSaltLen+chacha20poly1305.NonceSizeX)
	head[0] = xchachaVersion
	if _, err := io.ReadFull(r, head[1:]); err != nil {
		return nil, fmt.Errorf("envelope: read salt and nonce: %w", err)
	}
	salt := head[1 : 1+scryptSaltLen]
	nonce := head[1+scryptSaltLen:]

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, len(head), len(head)+len(data)+aead.Overhead())
	copy(raw, head)
	raw = aead.Seal(raw, nonce, data, head[:1])
	return encodeBase64(raw), nil
}

func openXChaCha(sealed []byte, passphrase string) ([]byte, error) {
	raw, err := decodeBase64(sealed)
	if err != nil {
		return nil, err
	}

	head := 1 + scryptSaltLen + chacha20poly1305.NonceSizeX
	if len(raw) < head+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrMalformed, len(raw))
	}
	if raw[0] != xchachaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, raw[0])
	}

	key, err := deriveKey(passphrase, raw[1:1+scryptSaltLen])
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, raw[1+scryptSaltLen:head], raw[head:], raw[:1])
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}
