package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"fmt"
	"io"
)

// OpenSSL "enc" layout: "Salted__" | salt(8) | AES-256-CBC ciphertext,
// key and IV from EVP_BytesToKey with MD5 and one iteration.
const (
	saltedPrefix   = "Salted__"
	opensslSaltLen = 8
	opensslKeyLen  = 32
)

// evpBytesToKey derives key and IV the way OpenSSL's EVP_BytesToKey does
// with MD5 and a single round: D_i = MD5(D_{i-1} || pass || salt).
func evpBytesToKey(pass, salt []byte, keyLen, ivLen int) (key, iv []byte) {
	var out, prev []byte
	for len(out) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(pass)
		h.Write(salt)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}
	return out[:keyLen], out[keyLen : keyLen+ivLen]
}

func sealOpenSSL(data []byte, passphrase string, r io.Reader) ([]byte, error) {
	salt := make([]byte, opensslSaltLen)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("envelope: read salt: %w", err)
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt, opensslKeyLen, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(data, aes.BlockSize)
	head := len(saltedPrefix) + opensslSaltLen
	raw := make([]byte, head+len(padded))
	copy(raw, saltedPrefix)
	copy(raw[len(saltedPrefix):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(raw[head:], padded)

	return encodeBase64(raw), nil
}

func openOpenSSL(sealed []byte, passphrase string) ([]byte, error) {
	raw, err := decodeBase64(sealed)
	if err != nil {
		return nil, err
	}

	head := len(saltedPrefix) + opensslSaltLen
	if len(raw) < head || string(raw[:len(saltedPrefix)]) != saltedPrefix {
		return nil, fmt.Errorf("%w: missing %q header", ErrMalformed, saltedPrefix)
	}
	ct := raw[head:]
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d", ErrMalformed, len(ct))
	}

	key, iv := evpBytesToKey([]byte(passphrase), raw[len(saltedPrefix):head], opensslKeyLen, aes.BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)
	return pkcs7Unpad(plain, aes.BlockSize)
}

func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// pkcs7Unpad strips the padding. Bad padding is almost always the result
// of a wrong passphrase, so it is reported as ErrDecrypt.
func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 || len(data)%size != 0 {
		return nil, ErrDecrypt
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size {
		return nil, ErrDecrypt
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecrypt
		}
	}
	return data[:len(data)-n], nil
}
