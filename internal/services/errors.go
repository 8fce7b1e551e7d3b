package services

import (
	"errors"
	"fmt"
)

// ErrPersist matches any *PersistError.
var ErrPersist = errors.New("persist failed")

// PersistError reports that a snapshot save failed. The in-memory change it
// followed has already been applied and is not rolled back.
type PersistError struct {
	Store string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Store, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool { return target == ErrPersist }
