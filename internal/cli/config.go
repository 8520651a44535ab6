package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/svanichkin/steg/envelope"
	"github.com/svanichkin/steg/limits"
)

const (
	envPassphrase       = "STEG_PASSPHRASE"
	legacyEnvPassphrase = "STEGO_KEY"
)

var errUsage = errors.New("usage")

// Config is the parsed command line of one command.
type Config struct {
	Input       string
	Output      string
	Message     string
	MessageFile string
	HasMessage  bool

	Scheme     envelope.Scheme
	Passphrase string
	Compress   bool
	Latin1     bool

	Debug     bool
	LogFormat string

	Limits limits.Limits
}

func (c Config) envelope() envelope.Options {
	return envelope.Options{Scheme: c.Scheme, Passphrase: c.Passphrase, Compress: c.Compress}
}

// parseFlags parses args for cmd. The first positional argument is taken
// as the input image when -in is absent.
func parseFlags(cmd string, args []string, stderr io.Writer) (Config, error) {
	cfg := Config{Limits: limits.Default}
	fs := flag.NewFlagSet("steg "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cipher string
	fs.StringVar(&cfg.Input, "in", "", "input image (PNG, JPEG, GIF, BMP or QOI)")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&cfg.LogFormat, "log-format", "text", "log format: text or json")

	switch cmd {
	case "hide":
		fs.StringVar(&cfg.Output, "out", "", "output image (PNG, BMP or QOI); default <input>-stego.png")
		fs.StringVar(&cfg.Message, "m", "", "message text")
		fs.StringVar(&cfg.MessageFile, "f", "", "read the message from this file")
	case "reveal":
		fs.StringVar(&cfg.Output, "o", "", "write the message to this file instead of stdout")
	}
	if cmd != "capacity" {
		fs.StringVar(&cipher, "cipher", "plain", "cipher: plain, openssl (CryptoJS compatible) or xchacha")
		fs.StringVar(&cfg.Passphrase, "passphrase", "", "passphrase; defaults to $"+envPassphrase+" or a prompt")
		fs.BoolVar(&cfg.Compress, "compress", false, "zstd-compress the message before embedding")
		fs.BoolVar(&cfg.Latin1, "latin1", false, "store the message one byte per character (Latin-1), as the web tool does")
	}

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := fs.Args()
	if cfg.Input == "" && len(rest) > 0 {
		cfg.Input, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return cfg, fmt.Errorf("%w: unexpected arguments %q", errUsage, rest)
	}
	if cfg.Input == "" {
		return cfg, fmt.Errorf("%w: no input image", errUsage)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "m" {
			cfg.HasMessage = true
		}
	})
	if cfg.HasMessage && cfg.MessageFile != "" {
		return cfg, fmt.Errorf("%w: -m and -f are mutually exclusive", errUsage)
	}

	scheme, err := envelope.ParseScheme(cipher)
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	cfg.Scheme = scheme

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("%w: unknown log format %q", errUsage, cfg.LogFormat)
	}

	if cmd == "hide" && cfg.Output == "" {
		cfg.Output = defaultOutput(cfg.Input)
	}
	return cfg, nil
}

// defaultOutput places "<base>-stego.png" next to the input.
func defaultOutput(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "-stego.png"
}

func newLogger(w io.Writer, cfg Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

var warnedKeys sync.Map

// lookupEnv returns the value of newKey, falling back to the legacy oldKey
// with a one-time deprecation warning.
func lookupEnv(newKey, oldKey string, log *slog.Logger) (string, bool) {
	if v, ok := os.LookupEnv(newKey); ok {
		return v, true
	}
	if v, ok := os.LookupEnv(oldKey); ok {
		if _, seen := warnedKeys.LoadOrStore(oldKey, true); !seen {
			log.Warn("deprecated environment variable", "use", newKey, "got", oldKey)
		}
		return v, true
	}
	return "", false
}

// resolvePassphrase fills cfg.Passphrase from the environment or, when
// stdin is a terminal, from an echo-free prompt.
func resolvePassphrase(cfg *Config, stdin io.Reader, stderr io.Writer, log *slog.Logger) error {
	if cfg.Passphrase != "" || !cfg.Scheme.Encrypted() {
		return nil
	}
	if v, ok := lookupEnv(envPassphrase, legacyEnvPassphrase, log); ok {
		cfg.Passphrase = v
		return nil
	}

	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	fmt.Fprint(stderr, "Passphrase: ")
	p, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(stderr)
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	cfg.Passphrase = string(p)
	return nil
}
