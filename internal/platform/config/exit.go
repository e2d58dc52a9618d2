package config

import (
	"fmt"
	"os"
	"strings"
)

// Exitf prints a fatal startup error to stderr and exits with status 1.
// A trailing newline is appended when the format ends without one.
func Exitf(format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
