package vocab

import "errors"

// Error kinds returned by Store operations. They are wrapped with a message
// describing the offending unit or word, so match them with errors.Is.
var (
	// ErrValidation is returned when a required field is blank after normalization.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a unit or word does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an add or rename would duplicate an existing word.
	ErrConflict = errors.New("already exists")

	// ErrCorruptData is returned when the vocabulary file cannot be decoded.
	ErrCorruptData = errors.New("corrupt vocabulary data")

	// ErrPersistence is returned when the vocabulary file cannot be written.
	ErrPersistence = errors.New("failed to persist vocabulary")

	// ErrCanceled is returned when the caller declines a destructive operation.
	ErrCanceled = errors.New("canceled")
)
