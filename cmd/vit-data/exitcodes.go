package main

import (
	"errors"
	"io/fs"

	"github.com/iota-uz/vitstation/modules/voting/domain"
	"github.com/iota-uz/vitstation/modules/voting/services"
	"github.com/iota-uz/vitstation/pkg/csvutil"
	"github.com/iota-uz/vitstation/pkg/snapshot"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitDBWrite    = 5
	exitSafetyNet  = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// exitCode maps an error to the process exit status. A failed restore always wins because
// the store may be left in a partial state.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, snapshot.ErrRestoreFailed) {
		return exitSafetyNet
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}

	var (
		we *services.WriteError
		de *csvutil.DecodeError
		nf *services.ChallengeNotFoundError
	)
	switch {
	case errors.Is(err, domain.ErrNoConnection), errors.Is(err, snapshot.ErrDatabaseNotFound):
		return exitDB
	case errors.As(err, &we):
		return exitDBWrite
	case errors.As(err, &de), errors.As(err, &nf),
		errors.Is(err, services.ErrNoFunds), errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, fs.ErrNotExist):
		return exitValidation
	}
	return 1
}
