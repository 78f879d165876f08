// Package cli is the process bootstrap: argv parsing, profile-file
// loading, dialect selection (§6's "old" vs. "new" profile grammars),
// and wiring the bound [config.Profile] into [driver.Run] — the thin
// outer layer the spec calls "the CLI argument surface and process
// bootstrap" and explicitly treats as an external collaborator to the
// engine itself. Structurally this generalizes the teacher's
// internal/cli down from a multi-subcommand dispatcher (Command +
// FlagSet-per-subcommand) to a single command with positional
// arguments, since ffsb has exactly one verb: run a profile.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jrsantos/ffsb/internal/config"
	"github.com/jrsantos/ffsb/internal/driver"
	"github.com/jrsantos/ffsb/pkg/fs"
)

// Version is the reported build version; overridden at link time with
// -ldflags "-X github.com/jrsantos/ffsb/internal/cli.Version=...".
var Version = "dev"

const usage = `Usage: ffsb [flags] <profile> [time_override_seconds]

Runs the filesystem benchmark described by <profile>.

A bare <profile> is parsed with the new, sectioned dialect. Supplying
time_override_seconds selects the old, flat dialect and clobbers any
time= assignment in the file (matching the legacy argv[2] override).

Flags:
  -h, --help             Show this help
      --version          Print the version and exit
      --dump-resolved <file>
                          Write the fully-resolved config as JSONC to
                          <file> (after parse + validate) and exit
                          without running the benchmark`

// Run is the process entry point: parses argv, loads and validates the
// profile, and drives the benchmark to completion or to the first
// signal. Returns the process exit code; never calls os.Exit itself, so
// it stays testable.
//
// sigCh may be nil (e.g. in tests) to skip signal handling entirely.
func Run(stdout, stderr io.Writer, args []string, sigCh <-chan os.Signal) int {
	flags := flag.NewFlagSet("ffsb", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	help := flags.BoolP("help", "h", false, "Show help")
	version := flags.Bool("version", false, "Print the version and exit")
	dumpResolved := flags.String("dump-resolved", "", "Write the resolved config as JSONC to `file` and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		fmt.Fprintln(stderr, usage)
		return 1
	}

	if *version {
		fmt.Fprintln(stdout, "ffsb", Version)
		return 0
	}

	positional := flags.Args()

	if *help {
		fmt.Fprintln(stdout, usage)
		return 0
	}

	if len(positional) == 0 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	if len(positional) > 2 {
		fmt.Fprintln(stderr, "error: too many arguments")
		fmt.Fprintln(stderr, usage)
		return 1
	}

	profile, err := loadProfile(positional)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if err := config.Validate(profile); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	if *dumpResolved != "" {
		if err := config.DumpResolved(*dumpResolved, profile); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return 0
	}

	return runProfile(stdout, stderr, profile, sigCh)
}

// loadProfile reads the profile file named by positional[0] and parses
// it with the dialect the argument count selects (§6: "the positional
// override implies old").
func loadProfile(positional []string) (*config.Profile, error) {
	text, err := os.ReadFile(positional[0])
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	if len(positional) == 2 {
		override, err := strconv.ParseUint(positional[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("time_override_seconds: %w", err)
		}
		return config.ParseOld(string(text), uint32(override))
	}

	return config.ParseNew(string(text))
}

// runProfile drives the benchmark in a goroutine so a signal on sigCh
// can cancel the run's context and let in-flight workers unwind
// cleanly — the same cancel-then-grace-period shape as the teacher's
// internal/cli.Run, shrunk to one command instead of a dispatch table.
func runProfile(stdout, stderr io.Writer, profile *config.Profile, sigCh <-chan os.Signal) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fsys := fs.NewReal()

	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx, profile, fsys, stdout) }()

	select {
	case err := <-done:
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return 0
	case <-sigCh:
		fmt.Fprintln(stderr, "shutting down, waiting up to 5s for in-flight operations...")
		cancel()
	}

	select {
	case err := <-done:
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 130
	case <-time.After(5 * time.Second):
		fmt.Fprintln(stderr, "graceful shutdown timed out, forced exit (130)")
		return 130
	}
}
