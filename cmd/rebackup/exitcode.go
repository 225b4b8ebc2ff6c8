package rebackup

import (
	stderrors "errors"

	"github.com/arthur-debert/rebackup/pkg/errors"
)

// Process exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitSource    = 2
	ExitWalk      = 3
	ExitNonUTF8   = 4
	ExitOutput    = 5
	ExitBadConfig = 10
)

// exitError ties an error to the exit code of the stage it happened in
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error  { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode returns the process exit code for an error returned by the root
// command
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *exitError
	if stderrors.As(err, &exitErr) {
		return exitErr.code
	}

	switch errors.GetErrorCode(err) {
	case errors.ErrDirNotFound, errors.ErrCanonicalize:
		return ExitSource
	case errors.ErrNonUTF8Path:
		return ExitNonUTF8
	case errors.ErrOutputWrite:
		return ExitOutput
	case errors.ErrInvalidPattern, errors.ErrConfigLoad, errors.ErrConfigParse, errors.ErrConfigValid:
		return ExitBadConfig
	default:
		return ExitFailure
	}
}
