// Command confdoc keeps a curated flag to category mapping in step with the
// options a Go project registers, and renders documentation tables from it.
package main

import (
	"fmt"
	"os"

	goerrors "github.com/goliatone/go-errors"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(builtinExtensions).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage flattens rich errors into one human readable line.
func errorMessage(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return err.Error()
	}
	msg := rich.Message
	if rich.Source != nil {
		msg += ": " + errorMessage(rich.Source)
	}
	return msg
}
