package store

import (
	"io/fs"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound is returned when a tournament document or image is absent
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a tournament name is already taken
	ErrConflict = errors.New("tournament name already exists")

	// ErrMalformed is returned when tournament.json does not parse
	ErrMalformed = errors.New("malformed tournament document")

	// ErrInvalidInput is returned for names, paths or payloads that can't be stored
	ErrInvalidInput = errors.New("invalid input")
)

// classify marks low-level file-system errors with the matching sentinel so
// callers can use errors.Is without caring about the os error types.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrapf(err, format, args...)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.Mark(wrapped, ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return errors.Mark(wrapped, ErrConflict)
	default:
		return wrapped
	}
}
