// Command ffsb runs a multi-threaded filesystem benchmark against a
// declarative profile. See internal/cli for the argument surface.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jrsantos/ffsb/internal/cli"
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args[1:], sigCh))
}
