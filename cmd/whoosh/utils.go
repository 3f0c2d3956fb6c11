// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/whoosh-bridge/whoosh/log"
)

// fatal prints the message to both stdout and stderr and exits. When the two
// streams point at the same file the message is printed only once.
func fatal(args ...interface{}) {
	w := io.Writer(io.MultiWriter(os.Stdout, os.Stderr))
	if runtime.GOOS == "windows" {
		// SameFile does not work on Windows, stdout alone is fine there
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	i := int(val)
	if i < 0 || uint64(i) != val {
		return 0, fmt.Errorf("invalid value %v", val)
	}
	return i, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// no stable location to guess, leave empty and require the flag
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "org.whoosh.bridge")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "org.whoosh.bridge")
	default:
		return filepath.Join(home, ".org.whoosh.bridge")
	}
}

// handleExitSignal returns a context canceled on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	exitSignalCtx, cancelFunc := context.WithCancel(context.Background())

	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancelFunc()
	}()

	return exitSignalCtx
}
