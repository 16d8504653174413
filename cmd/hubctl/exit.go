package main

import "librahub/internal/domain"

const (
	exitCodeFailure  = 1
	exitCodeUsage    = 2
	exitCodeNotFound = 3
)

type exitError struct {
	code    int
	message string
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}

func exitCodeFor(err error) int {
	code, _ := domain.CodeFrom(err)
	switch code {
	case domain.CodeNotFound:
		return exitCodeNotFound
	case domain.CodeInvalidArgument, domain.CodeFailedPrecond:
		return exitCodeUsage
	default:
		return exitCodeFailure
	}
}
