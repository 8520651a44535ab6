package limits

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckMessage(t *testing.T) {
	for _, tc := range []struct {
		name string
		msg  string
		want error
	}{
		{"empty", "", ErrEmptyMessage},
		{"short", "hello", nil},
		{"at limit", strings.Repeat("a", 10000), nil},
		{"over limit", strings.Repeat("a", 10001), ErrMessageTooLong},
		{"multibyte at limit", strings.Repeat("é", 10000), nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := Default.CheckMessage(tc.msg); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCheckDimensions(t *testing.T) {
	for _, tc := range []struct {
		w, h int
		want error
	}{
		{8, 8, nil},
		{7, 100, ErrImageTooSmall},
		{100, 7, ErrImageTooSmall},
		{30000, 30000, nil},
		{60000, 15000, nil},
		{30001, 30000, ErrImageTooLarge},
	} {
		if err := Default.CheckDimensions(tc.w, tc.h); !errors.Is(err, tc.want) {
			t.Errorf("CheckDimensions(%d, %d) = %v, want %v", tc.w, tc.h, err, tc.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	if err := Default.CheckFileSize(10 << 20); err != nil {
		t.Fatalf("10MB: %v", err)
	}
	err := Default.CheckFileSize(10<<20 + 1)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
	if !strings.Contains(err.Error(), "10.0MB") {
		t.Fatalf("message %q does not report the size", err)
	}
}

func TestCheckPassphrase(t *testing.T) {
	for _, tc := range []struct {
		p    string
		want error
	}{
		{"", ErrPassphraseRequired},
		{"1234567", ErrPassphraseTooShort},
		{"12345678", nil},
		{"пароль12", nil},
	} {
		if err := Default.CheckPassphrase(tc.p); !errors.Is(err, tc.want) {
			t.Errorf("CheckPassphrase(%q) = %v, want %v", tc.p, err, tc.want)
		}
	}
}
