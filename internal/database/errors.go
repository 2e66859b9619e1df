package database

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a report status transition is
// attempted on a report that is no longer pending.
var ErrInvalidTransition = errors.New("report is not pending")
