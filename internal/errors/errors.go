// Package errors defines the domain errors of the JPO platform. Services
// return these sentinels so handlers can map precondition failures to client
// errors instead of generic 500s.
package errors

import "errors"

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyRegistered is returned when the user already holds an active
// registration for the open day.
var ErrAlreadyRegistered = errors.New("user is already registered for this open day")

// ErrOpenDayFull is returned when an open day is at or above its capacity
// ceiling. A missing open day is also reported as full (fail closed).
var ErrOpenDayFull = errors.New("open day is at full capacity")

// ErrOpenDayNotFound is returned when the referenced open day does not exist.
var ErrOpenDayNotFound = errors.New("open day not found")

// ErrInvalidStatus is returned when a registration status is neither
// "registered" nor "unregistered".
var ErrInvalidStatus = errors.New("invalid registration status")

// ErrRoleNameTaken is returned when creating or renaming a role to a name
// that already exists.
var ErrRoleNameTaken = errors.New("role name already exists")

// ErrRoleInUse is returned when deleting a role still assigned to users.
var ErrRoleInUse = errors.New("role is assigned to users")
