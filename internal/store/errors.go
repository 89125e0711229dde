package store

import "errors"

var (
	ErrAccountExists       = errors.New("account already exists")
	ErrRecordNotFound      = errors.New("record not found")
	ErrConstraintViolation = errors.New("database constraint violation")
	// ErrStateChanged is returned by conditional updates whose WHERE clause
	// no longer matches, e.g. a transaction posted by a concurrent request.
	ErrStateChanged = errors.New("record state changed")
)
