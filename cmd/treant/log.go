package main

import (
	"fmt"
	"os"
)

// logger prints user-facing progress messages to stderr when verbose,
// mirroring the package's structured zerolog diagnostics, which are
// for the library code rather than CLI progress.
type logger bool

func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr, "")
}
