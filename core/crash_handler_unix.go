//go:build unix

package core

import (
	"fmt"
	"os"
	"runtime/debug"
)

// cleanupFn, when set, runs before the crash banner is printed; cmd/tanks-client
// sets it to restore the terminal from tcell raw mode.
var cleanupFn func()

// SetCleanup registers a callback to run on crash before process exit.
func SetCleanup(fn func()) {
	cleanupFn = fn
}

// HandleCrash is the unified panic handler that prints the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if cleanupFn != nil {
		cleanupFn()
	}

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())

	os.Exit(1)
}
