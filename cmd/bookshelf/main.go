// Package main provides the bookshelf command-line reader.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newApp().execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(exitCode(err))
	}
}

// formatError shows reader-facing failures as-is and prefixes everything else.
func formatError(err error) string {
	if domainerrors.CodeOf(err).UserFacing() {
		return err.Error()
	}
	return "Error: " + err.Error()
}

// exitCode maps a domain error code to a process exit status.
func exitCode(err error) int {
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeValidation:
		return 2
	case domainerrors.CodeUnauthorized, domainerrors.CodeInvalidCredentials:
		return 3
	case domainerrors.CodeNotFound:
		return 4
	case domainerrors.CodeRateLimited:
		return 5
	default:
		return 1
	}
}
