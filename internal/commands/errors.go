package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors leaving the engine's command layer so
// callers can distinguish failure modes without string matching.
const (
	manuscriptValidationFailed = "MANUSCRIPT_VALIDATION_FAILED"
	manuscriptCommandCanceled  = "MANUSCRIPT_COMMAND_CANCELED"
	manuscriptCommandTimedOut  = "MANUSCRIPT_COMMAND_TIMED_OUT"
	manuscriptContextFailed    = "MANUSCRIPT_CONTEXT_FAILED"
	manuscriptCommandFailed    = "MANUSCRIPT_COMMAND_FAILED"
)

// alreadyWrapped reports whether a lower layer has tagged err; those
// errors pass through so the original category survives.
func alreadyWrapped(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}

func wrapValidationError(err error) error {
	if alreadyWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "manuscript command rejected by validation").
		WithTextCode(manuscriptValidationFailed)
}

func wrapContextError(err error) error {
	if alreadyWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "manuscript command canceled").
			WithTextCode(manuscriptCommandCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "manuscript command timed out").
			WithTextCode(manuscriptCommandTimedOut)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "manuscript command context failed").
			WithTextCode(manuscriptContextFailed)
	}
}

func wrapExecuteError(err error) error {
	if alreadyWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "manuscript command failed").
		WithTextCode(manuscriptCommandFailed)
}
