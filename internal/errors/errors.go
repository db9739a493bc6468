// Package errors formats failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/keyring"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/kv/postgres"
	"github.com/julianstephens/micromind/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests a next step for errors the user can fix themselves.
func Hint(err error) string {
	switch {
	case errors.Is(err, kv.ErrNotInitialized):
		return fmt.Sprintf("create it with '%s init', or point --storage at an existing journal", constants.AppName)
	case errors.Is(err, postgres.ErrEmbeddedCredentials):
		return fmt.Sprintf("store the connection string with '%s keyring set' or %s, then use --storage %s",
			constants.AppName, constants.EnvDBConnection, constants.PostgresStorage)
	case errors.Is(err, keyring.ErrNotFound):
		return fmt.Sprintf("save a connection string with '%s keyring set'", constants.AppName)
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		logger.Close()
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	logger.Close()
	os.Exit(1)
}
