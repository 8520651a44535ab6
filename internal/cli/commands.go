package cli

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/svanichkin/steg"
	"github.com/svanichkin/steg/envelope"
	"github.com/svanichkin/steg/imageio"
)

type runEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

var errNoMessage = errors.New("no hidden message found in this image")

// statInput checks the input file size before anything is decoded.
func statInput(cfg Config) (int64, error) {
	fi, err := os.Stat(cfg.Input)
	if err != nil {
		return 0, err
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("%s is a directory", cfg.Input)
	}
	if err := cfg.Limits.CheckFileSize(fi.Size()); err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// loadCarrier decodes the input image. The header is probed first so the
// dimension limits apply before any pixel memory is allocated.
func loadCarrier(cfg Config, env *runEnv) (*image.NRGBA, imageio.Format, error) {
	if _, err := statInput(cfg); err != nil {
		return nil, "", err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return nil, "", err
	}
	defer in.Close()

	imgCfg, format, err := imageio.DecodeConfig(in)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Limits.CheckDimensions(imgCfg.Width, imgCfg.Height); err != nil {
		return nil, "", err
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}

	img, _, err := imageio.Decode(in)
	if err != nil {
		return nil, "", err
	}
	env.log.Debug("loaded carrier", "path", cfg.Input, "format", format, "width", imgCfg.Width, "height", imgCfg.Height)
	return img, format, nil
}

func runCapacity(cfg Config, env *runEnv) error {
	size, err := statInput(cfg)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	imgCfg, format, err := imageio.DecodeConfig(in)
	if err != nil {
		return err
	}
	w, h := imgCfg.Width, imgCfg.Height
	env.log.Debug("probed image", "format", format, "width", w, "height", h, "bytes", size)

	fmt.Fprintf(env.stdout, "file:       %s (%s, %.2f KB)\n", cfg.Input, format, float64(size)/1024)
	fmt.Fprintf(env.stdout, "dimensions: %d x %d\n", w, h)
	fmt.Fprintf(env.stdout, "capacity:   %d bits, %d bytes\n", steg.CapacityBits(w, h), steg.Capacity(w, h))
	fmt.Fprintf(env.stdout, "message:    up to %d bytes\n", steg.MaxMessageLen(w, h))
	fmt.Fprintf(env.stdout, "estimate:   %d characters\n", steg.CharacterEstimate(w, h))
	if !format.Lossless() {
		fmt.Fprintf(env.stdout, "note:       %s is lossy; save the result as PNG, BMP or QOI\n", format)
	}
	if err := cfg.Limits.CheckDimensions(w, h); err != nil {
		fmt.Fprintf(env.stdout, "warning:    %v\n", err)
	}
	return nil
}

func readMessage(cfg Config, stdin io.Reader) ([]byte, error) {
	switch {
	case cfg.HasMessage:
		return []byte(cfg.Message), nil
	case cfg.MessageFile != "":
		return os.ReadFile(cfg.MessageFile)
	}
	return io.ReadAll(stdin)
}

func runHide(cfg Config, env *runEnv) error {
	outFormat, err := imageio.FormatFromPath(cfg.Output)
	if err != nil {
		return err
	}
	if !outFormat.Lossless() {
		return fmt.Errorf("%w: %s output; use .png, .bmp or .qoi", imageio.ErrLossyFormat, outFormat)
	}

	img, _, err := loadCarrier(cfg, env)
	if err != nil {
		return err
	}
	b := img.Bounds()

	msg, err := readMessage(cfg, env.stdin)
	if err != nil {
		return err
	}
	if err := cfg.Limits.CheckMessage(string(msg)); err != nil {
		return err
	}
	if cfg.Latin1 {
		if msg, err = steg.Latin1Bytes(string(msg)); err != nil {
			return err
		}
	}

	if err := resolvePassphrase(&cfg, env.stdin, env.stderr, env.log); err != nil {
		return err
	}
	if cfg.Scheme.Encrypted() {
		if err := cfg.Limits.CheckPassphrase(cfg.Passphrase); err != nil {
			return err
		}
	}

	sealed, err := envelope.Seal(msg, cfg.envelope())
	if err != nil {
		return err
	}
	env.log.Debug("sealed message", "scheme", cfg.Scheme, "compress", cfg.Compress,
		"message_bytes", len(msg), "sealed_bytes", len(sealed), "capacity_bytes", steg.Capacity(b.Dx(), b.Dy()))

	out, err := steg.EmbedImage(img, sealed)
	if err != nil {
		return err
	}
	if err := imageio.EncodeFile(cfg.Output, out, outFormat); err != nil {
		return err
	}

	env.log.Info("message hidden", "out", cfg.Output, "bytes", len(sealed))
	fmt.Fprintf(env.stdout, "Hidden %d bytes in %s → %s\n", len(sealed), cfg.Input, cfg.Output)
	return nil
}

func runReveal(cfg Config, env *runEnv) error {
	img, format, err := loadCarrier(cfg, env)
	if err != nil {
		return err
	}

	sealed, err := steg.ExtractImage(img)
	if errors.Is(err, steg.ErrNoPayloadFound) {
		if !format.Lossless() {
			env.log.Warn("carrier is stored in a lossy format; hidden data does not survive it", "format", format)
		}
		return errNoMessage
	}
	if err != nil {
		return err
	}
	env.log.Debug("extracted payload", "bytes", len(sealed))

	if err := resolvePassphrase(&cfg, env.stdin, env.stderr, env.log); err != nil {
		return err
	}
	msg, err := envelope.Open(sealed, cfg.envelope())
	if err != nil {
		return err
	}
	if cfg.Scheme.Encrypted() {
		// a wrong key that still unpads cleanly yields nothing or garbage
		if len(msg) == 0 || (!cfg.Latin1 && !utf8.Valid(msg)) {
			return envelope.ErrDecrypt
		}
	}
	if len(msg) == 0 {
		return errNoMessage
	}
	if cfg.Latin1 {
		msg = []byte(steg.Latin1String(msg))
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, msg, 0o644); err != nil {
			return err
		}
		env.log.Info("message revealed", "out", cfg.Output, "bytes", len(msg))
		return nil
	}

	if _, err := env.stdout.Write(msg); err != nil {
		return err
	}
	if !bytes.HasSuffix(msg, []byte("\n")) {
		fmt.Fprintln(env.stdout)
	}
	return nil
}
