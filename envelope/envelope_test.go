package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// Produced with:
//
//	printf 'attack at dawn' | openssl enc -aes-256-cbc -md md5 -S 0102030405060708 -pass pass:correct-horse
//
// and prefixed with "Salted__" and the salt, as CryptoJS does.
const (
	vectorPassphrase = "correct-horse"
	vectorPlain      = "attack at dawn"
	vectorSealed     = "U2FsdGVkX18BAgMEBQYHCI+yHhiqdtaiSqfv5zmYrHA="
	vectorSalt       = "0102030405060708"
	vectorKey        = "e6e1d613d61fc644b1ddf76ebb33f5ea71e6c67ba50bf04f44a0d415c093b5b5"
	vectorIV         = "9a24a62dc6709d3596873ca55444b3df"
)

func TestEVPBytesToKey(t *testing.T) {
	salt, _ := hex.DecodeString(vectorSalt)
	key, iv := evpBytesToKey([]byte(vectorPassphrase), salt, opensslKeyLen, 16)
	if got := hex.EncodeToString(key); got != vectorKey {
		t.Errorf("key = %s, want %s", got, vectorKey)
	}
	if got := hex.EncodeToString(iv); got != vectorIV {
		t.Errorf("iv = %s, want %s", got, vectorIV)
	}
}

func TestOpenSSL_KnownVector(t *testing.T) {
	opts := Options{Scheme: SchemeOpenSSL, Passphrase: vectorPassphrase}

	plain, err := Open([]byte(vectorSealed), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(plain) != vectorPlain {
		t.Fatalf("Open = %q, want %q", plain, vectorPlain)
	}

	salt, _ := hex.DecodeString(vectorSalt)
	opts.Rand = bytes.NewReader(salt)
	sealed, err := Seal([]byte(vectorPlain), opts)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if string(sealed) != vectorSealed {
		t.Fatalf("Seal = %s, want %s", sealed, vectorSealed)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	messages := []struct {
		name string
		msg  string
	}{
		{"simple text", "Hello, World!"},
		{"long text", strings.Repeat("This is a test. ", 200)},
		{"unicode", "Hello 世界 🌍"},
		{"marker inside", "before [END] after"},
	}

	for _, scheme := range []Scheme{SchemePlain, SchemeOpenSSL, SchemeXChaCha} {
		for _, compress := range []bool{false, true} {
			for _, m := range messages {
				name := scheme.String() + "/" + m.name
				if compress {
					name += "/zstd"
				}
				t.Run(name, func(t *testing.T) {
					opts := Options{Scheme: scheme, Passphrase: "passphrase-123", Compress: compress}
					sealed, err := Seal([]byte(m.msg), opts)
					if err != nil {
						t.Fatalf("Seal: %v", err)
					}
					if scheme != SchemePlain || compress {
						if _, err := base64.StdEncoding.DecodeString(string(sealed)); err != nil {
							t.Fatalf("sealed form is not base64: %v", err)
						}
					}
					opened, err := Open(sealed, opts)
					if err != nil {
						t.Fatalf("Open: %v", err)
					}
					if string(opened) != m.msg {
						t.Fatalf("Open = %q, want %q", opened, m.msg)
					}
				})
			}
		}
	}
}

func TestSeal_EmptyMessage(t *testing.T) {
	for _, scheme := range []Scheme{SchemePlain, SchemeOpenSSL, SchemeXChaCha} {
		opts := Options{Scheme: scheme, Passphrase: "passphrase-123"}
		sealed, err := Seal(nil, opts)
		if err != nil {
			t.Fatalf("%v Seal: %v", scheme, err)
		}
		opened, err := Open(sealed, opts)
		if err != nil {
			t.Fatalf("%v Open: %v", scheme, err)
		}
		if len(opened) != 0 {
			t.Fatalf("%v Open = %q, want empty", scheme, opened)
		}
	}
}

func TestSeal_PlainIsPassthrough(t *testing.T) {
	msg := []byte("nothing to hide")
	sealed, err := Seal(msg, Options{})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !bytes.Equal(sealed, msg) {
		t.Fatalf("Seal = %q, want %q", sealed, msg)
	}
	sealed[0] = 'N'
	if msg[0] != 'n' {
		t.Fatalf("Seal returned the caller's slice")
	}
}

func TestSeal_CompressShrinks(t *testing.T) {
	msg := []byte(strings.Repeat("all work and no play ", 300))
	sealed, err := Seal(msg, Options{Compress: true})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(sealed) >= len(msg)/4 {
		t.Fatalf("compressed sealed size %d, message size %d", len(sealed), len(msg))
	}
}

func TestOpen_WrongPassphrase(t *testing.T) {
	if _, err := Open([]byte(vectorSealed), Options{Scheme: SchemeOpenSSL, Passphrase: "wrong-horse"}); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("openssl: err = %v, want ErrDecrypt", err)
	}

	opts := Options{Scheme: SchemeXChaCha, Passphrase: "right passphrase"}
	sealed, err := Seal([]byte("secret"), opts)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	opts.Passphrase = "wrong passphrase"
	if _, err := Open(sealed, opts); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("xchacha: err = %v, want ErrDecrypt", err)
	}
}

func TestOpen_Tampered(t *testing.T) {
	opts := Options{Scheme: SchemeXChaCha, Passphrase: "right passphrase"}
	sealed, err := Seal([]byte("secret"), opts)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(string(sealed))
	raw[len(raw)-1] ^= 0x01
	tampered := []byte(base64.StdEncoding.EncodeToString(raw))
	if _, err := Open(tampered, opts); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("err = %v, want ErrDecrypt", err)
	}
}

func TestOpen_Malformed(t *testing.T) {
	for _, tc := range []struct {
		name   string
		scheme Scheme
		input  string
	}{
		{"openssl not base64", SchemeOpenSSL, "not base64 at all!"},
		{"openssl no header", SchemeOpenSSL, base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))},
		{"openssl ragged", SchemeOpenSSL, base64.StdEncoding.EncodeToString([]byte("Salted__12345678abc"))},
		{"xchacha short", SchemeXChaCha, base64.StdEncoding.EncodeToString([]byte{xchachaVersion, 1, 2, 3})},
		{"xchacha version", SchemeXChaCha, base64.StdEncoding.EncodeToString(append([]byte{0x7f}, make([]byte, 64)...))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open([]byte(tc.input), Options{Scheme: tc.scheme, Passphrase: "passphrase"})
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestPassphraseRequired(t *testing.T) {
	for _, scheme := range []Scheme{SchemeOpenSSL, SchemeXChaCha} {
		if _, err := Seal([]byte("x"), Options{Scheme: scheme}); !errors.Is(err, ErrPassphraseRequired) {
			t.Fatalf("%v Seal err = %v, want ErrPassphraseRequired", scheme, err)
		}
		if _, err := Open([]byte("x"), Options{Scheme: scheme}); !errors.Is(err, ErrPassphraseRequired) {
			t.Fatalf("%v Open err = %v, want ErrPassphraseRequired", scheme, err)
		}
	}
}

func TestUnknownScheme(t *testing.T) {
	if _, err := Seal([]byte("x"), Options{Scheme: Scheme(42)}); !errors.Is(err, ErrUnknownScheme) {
		t.Fatalf("err = %v, want ErrUnknownScheme", err)
	}
}

func TestParseScheme(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Scheme
		ok   bool
	}{
		{"", SchemePlain, true},
		{"plain", SchemePlain, true},
		{"None", SchemePlain, true},
		{"openssl", SchemeOpenSSL, true},
		{"cryptojs", SchemeOpenSSL, true},
		{" AES ", SchemeOpenSSL, true},
		{"xchacha", SchemeXChaCha, true},
		{"xchacha20-poly1305", SchemeXChaCha, true},
		{"rot13", 0, false},
	} {
		got, err := ParseScheme(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseScheme(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && !errors.Is(err, ErrUnknownScheme) {
			t.Errorf("ParseScheme(%q) err = %v, want ErrUnknownScheme", tc.in, err)
		}
	}
}

func TestPKCS7(t *testing.T) {
	for n := 0; n < 40; n++ {
		data := bytes.Repeat([]byte{0xAB}, n)
		padded := pkcs7Pad(data, 16)
		if len(padded)%16 != 0 || len(padded) <= n {
			t.Fatalf("pad(%d) length %d", n, len(padded))
		}
		back, err := pkcs7Unpad(padded, 16)
		if err != nil || !bytes.Equal(back, data) {
			t.Fatalf("unpad(pad(%d)) = %x, %v", n, back, err)
		}
	}
	if _, err := pkcs7Unpad(bytes.Repeat([]byte{0x11}, 16), 16); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("bad padding err = %v, want ErrDecrypt", err)
	}
}
