package cli

import (
	"errors"

	"github.com/matsen/names/internal/storage"
)

// Exit codes returned by the names binary.
const (
	ExitSuccess         = 0 // Success, including reported duplicates, not-found and storage errors
	ExitConnectionError = 1 // Database could not be opened
	ExitUsageError      = 2 // Invalid flags or arguments
	ExitConfigError     = 3 // Global config could not be read
)

// ConfigError marks a failure to resolve configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "loading config: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned from the root command to a process exit
// code. Anything unclassified came from flag or argument parsing.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var connErr *storage.ConnectionError
	if errors.As(err, &connErr) {
		return ExitConnectionError
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	return ExitUsageError
}
