// Package logging wraps the standard library log package with a
// debug-gated, size-rotated file sink, shared between cmd/tanks-server
// and cmd/tanks-client so both binaries log the same way.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	dir        = "logs"
	maxLogSize = 10 * 1024 * 1024 // 10MB
)

// Setup configures the standard logger for name (e.g. "tanks-server"). If
// debug is false, logging is disabled entirely (output to io.Discard, so
// nothing reaches stdout/stderr during normal operation). Returns the
// open log file, or nil if logging is disabled; callers should close it
// on exit.
func Setup(name string, debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(dir, name+".log")
	rotateIfOversized(logPath, name)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open log file: %v\n", err)
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Printf("=== %s started ===", name)
	return f
}

func rotateIfOversized(logPath, name string) {
	info, err := os.Stat(logPath)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	rotated := filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, time.Now().Format("2006-01-02-15-04-05")))
	if err := os.Rename(logPath, rotated); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to rotate log file: %v\n", err)
	}
}
