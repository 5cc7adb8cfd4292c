// Package common defines shared constants and sentinel errors used across
// the sbts server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors (malformed identifiers, bad filenames).
	ErrorValidation = errors.New("validation error")

	// ErrNestedTransaction is returned when an operation that must commit on
	// its own is invoked while the caller already holds an open transaction.
	ErrNestedTransaction = errors.New("durable transaction requested inside an open transaction")

	// ErrObjectStore wraps any failure reported by the object storage backend.
	ErrObjectStore = errors.New("object store failure")

	// ErrReadStream wraps a failure reading the caller-supplied byte stream.
	ErrReadStream = errors.New("failed to read upload stream")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
