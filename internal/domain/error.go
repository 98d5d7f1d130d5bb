package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrReadDatabaseRow = errors.New("failed to read database row")

	// ErrNoTxScope is returned when transaction or handle access is attempted
	// outside an established ambient scope. This is a wiring bug: workers and
	// handlers must run inside RunScoped, never against a silent default.
	ErrNoTxScope = errors.New("no transaction scope established")
)
