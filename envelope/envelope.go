package envelope

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrPassphraseRequired = errors.New("envelope: passphrase required")
	ErrDecrypt            = errors.New("envelope: invalid passphrase or corrupted message")
	ErrUnknownScheme      = errors.New("envelope: unknown scheme")
	ErrMalformed          = errors.New("envelope: malformed sealed message")
)

// Scheme selects the cipher applied by Seal.
type Scheme int

const (
	SchemePlain Scheme = iota
	SchemeOpenSSL
	SchemeXChaCha
)

var schemeNames = map[Scheme]string{
	SchemePlain:   "plain",
	SchemeOpenSSL: "openssl",
	SchemeXChaCha: "xchacha",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Encrypted reports whether s needs a passphrase.
func (s Scheme) Encrypted() bool {
	return s == SchemeOpenSSL || s == SchemeXChaCha
}

// ParseScheme maps a scheme name to its Scheme. "none" and "" mean plain,
// "aes" and "cryptojs" are accepted for openssl.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain", "none":
		return SchemePlain, nil
	case "openssl", "aes", "cryptojs":
		return SchemeOpenSSL, nil
	case "xchacha", "xchacha20", "xchacha20-poly1305":
		return SchemeXChaCha, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// Options controls Seal and Open. Both sides must use the same Scheme,
// Passphrase and Compress values.
type Options struct {
	Scheme     Scheme
	Passphrase string
	Compress   bool

	// Rand supplies salts and nonces. nil means crypto/rand.Reader.
	Rand io.Reader
}

func (o Options) random() io.Reader {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.Reader
}

func (o Options) check() error {
	if _, ok := schemeNames[o.Scheme]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownScheme, o.Scheme)
	}
	if o.Scheme.Encrypted() && o.Passphrase == "" {
		return fmt.Errorf("%w for %v", ErrPassphraseRequired, o.Scheme)
	}
	return nil
}

// Seal turns msg into the bytes to embed.
func Seal(msg []byte, opts Options) ([]byte, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}

	data := msg
	if opts.Compress {
		c, err := compress(msg)
		if err != nil {
			return nil, err
		}
		data = c
	}

	switch opts.Scheme {
	case SchemeOpenSSL:
		return sealOpenSSL(data, opts.Passphrase, opts.random())
	case SchemeXChaCha:
		return sealXChaCha(data, opts.Passphrase, opts.random())
	}

	if opts.Compress {
		return encodeBase64(data), nil
	}
	return append([]byte(nil), msg...), nil
}

// Open reverses Seal.
func Open(sealed []byte, opts Options) ([]byte, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch opts.Scheme {
	case SchemeOpenSSL:
		data, err = openOpenSSL(sealed, opts.Passphrase)
	case SchemeXChaCha:
		data, err = openXChaCha(sealed, opts.Passphrase)
	default:
		if !opts.Compress {
			return append([]byte(nil), sealed...), nil
		}
		data, err = decodeBase64(sealed)
	}
	if err != nil {
		return nil, err
	}

	if opts.Compress {
		return decompress(data)
	}
	return data, nil
}

func encodeBase64(data []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out
}

func decodeBase64(text []byte) ([]byte, error) {
	text = bytes.TrimSpace(text)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out[:n], nil
}
