package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflicting state")
	ErrTeamAlreadyUsed       = errors.New("team already used this cycle")
	ErrTokenInvalid          = errors.New("pick token invalid")
	ErrTerminatedRound       = errors.New("round was terminated early")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
