package main

import (
	"errors"
	"os"

	docpost "github.com/alnah/go-docpost"
	"github.com/alnah/go-docpost/internal/config"
)

// Exit codes for the docpost CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every page processed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitContent = 4 // Pages with parse, structural or render failures
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// A run error joins every page failure; usage beats I/O, which beats content.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, docpost.ErrInvalidPolicy) ||
		errors.Is(err, docpost.ErrInvalidAssetPath) ||
		errors.Is(err, docpost.ErrInvalidElementID) ||
		(errors.Is(err, docpost.ErrInvalidExport) && !errors.Is(err, docpost.ErrRender)) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, docpost.ErrIO) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoPages) {
		return ExitIO
	}

	// Content errors (exit 4)
	if errors.Is(err, docpost.ErrParse) ||
		errors.Is(err, docpost.ErrStructuralViolation) ||
		errors.Is(err, docpost.ErrRender) {
		return ExitContent
	}

	return ExitGeneral
}
