package service

import (
	"errors"
	"fmt"
)

// Business outcomes of the booking engine. These are expected results,
// not faults; callers branch on them with errors.Is.
var (
	ErrLibraryNotFound        = errors.New("library not found")
	ErrNoSeats                = errors.New("no seats available")
	ErrDuplicateActiveBooking = errors.New("an active booking already exists for this library")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
