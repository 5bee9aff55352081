// Package xlog is the harness's small leveled-logging wrapper: one plain
// line per event, no structured fields, with every write guarded by a
// mutex so concurrent analyzer workers never interleave partial lines.
package xlog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
	err io.Writer = os.Stderr
)

// SetOutput redirects the Info/Warn streams, e.g. so tests can capture
// output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetErrorOutput redirects the Fail stream.
func SetErrorOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	err = w
}

// Infof writes a plain informational line.
func Infof(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, format+"\n", args...)
}

// Warnf writes a "Warning: ..." line to the Info stream, matching the
// teacher's inline warning convention rather than a distinct stream.
func Warnf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "Warning: "+format+"\n", args...)
}

// Failf writes a hard-failure line to the error stream.
func Failf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(err, format+"\n", args...)
}
