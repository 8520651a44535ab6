// Package cli implements the steg command line: hiding a message in an
// image, revealing it again and reporting how much an image can carry.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

const usage = `Usage:
  steg capacity <image>
  steg hide   [flags] -in <image> [-out <image>] [-m <text> | -f <file>]
  steg reveal [flags] -in <image> [-o <file>]

Without -m or -f, hide reads the message from stdin.
Run "steg <command> -h" for the flags of a command.
`

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type command func(cfg Config, env *runEnv) error

var commands = map[string]command{
	"capacity": runCapacity,
	"hide":     runHide,
	"reveal":   runReveal,
}

// Run executes the command in args (without the program name) and returns
// the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	name := args[0]
	switch name {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return ExitOK
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return ExitUsage
	}

	cfg, err := parseFlags(name, args[1:], stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	env := &runEnv{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    newLogger(stderr, cfg).With("cmd", name),
	}
	if err := cmd(cfg, env); err != nil {
		fmt.Fprintln(stderr, name, "error:", err)
		return ExitFailure
	}
	return ExitOK
}
