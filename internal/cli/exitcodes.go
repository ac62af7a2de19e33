package cli

import (
	"errors"

	"github.com/yaklabco/gomdmath/pkg/runner"
)

// Exit codes for gomdmath.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFindings indicates dropped math under --strict, or a document
	// whose placeholders do not match its store.
	ExitFindings = 1

	// ExitError indicates a usage, configuration, or I/O error.
	ExitError = 2
)

var (
	// ErrMathDropped is returned by extract --strict when an occurrence
	// could not be replaced.
	ErrMathDropped = errors.New("display math dropped")

	// ErrVerifyFailed is returned when placeholders and store records
	// disagree.
	ErrVerifyFailed = errors.New("verification failed")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsFinding(err):
		return ExitFindings
	default:
		return ExitError
	}
}

// IsFinding reports whether err only signals findings that were already
// reported, so it need not be logged again.
func IsFinding(err error) bool {
	return errors.Is(err, ErrMathDropped) || errors.Is(err, ErrVerifyFailed)
}

// ExitCodeFromResult determines the exit code of an extract run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	return ExitCode(resultError(result, strict))
}

// resultError returns the error an extract run should end with.
func resultError(result *runner.Result, strict bool) error {
	switch {
	case result == nil:
		return nil
	case result.HasErrors():
		return ErrFilesFailed
	case strict && result.HasDrops():
		return ErrMathDropped
	default:
		return nil
	}
}
