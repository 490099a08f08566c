package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Proration errors
	ErrInvalidPolicy   = errors.New("unknown proration policy")
	ErrAlreadyLifetime = errors.New("member already holds a lifetime entitlement")

	// Transaction lifecycle errors
	ErrInvalidTransition = errors.New("transaction is in a terminal state")
	ErrAlreadyConfirmed  = errors.New("transaction already confirmed")
	ErrMissingReason     = errors.New("rejection reason is required")
	ErrNotExpiredYet     = errors.New("transaction deadline has not passed")

	// Workflow errors
	ErrUnauthorizedOperator = errors.New("operator lacks confirmation rights")

	// Storage errors. Repositories map driver failures onto these so use
	// cases can tell a business-rule violation from a broken store.
	ErrStorageFailure     = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction execution context")
)
