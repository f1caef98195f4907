package store

import (
	"errors"
	"fmt"

	"github.com/malvik/dagbok/pkg/models"
)

// ErrNotFound is returned by Load when the database file does not exist yet.
// The caller can treat this as a fresh install and continue with an empty
// store; Load has already prepared the storage directory for a later Save.
var ErrNotFound = errors.New("calendar database file not found")

// AlreadyExistsError is returned by Add when a calendar with the same name
// is already in the store. Existing is the calendar that blocked the add.
type AlreadyExistsError struct {
	Existing *models.Calendar
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("calendar %q already exists", e.Existing.Name())
}

// CorruptError is returned by Load when the database file exists but its
// content does not parse. The store may be partially populated at that point
// and must be discarded.
type CorruptError struct {
	Path  string
	Cause error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("calendar database file %s corrupted: %v", e.Path, e.Cause)
}

func (e *CorruptError) Unwrap() error {
	return e.Cause
}
