// Package services defines the business logic for complaint intake,
// lifecycle transitions, responses, tracking lookups, and authentication.
// This file centralizes common service-level error values so that they can
// be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"
	"fmt"
)

// Complaint lifecycle errors.
var (
	// ErrComplaintNotFound indicates that the requested complaint does not
	// exist, whether addressed by internal ID or tracking identifier.
	ErrComplaintNotFound = errors.New("complaint not found")

	// ErrInvalidInput is returned when a required intake field is missing
	// or malformed. The wrapping error carries field-level detail.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus is returned when a transition names a status outside
	// the four-value enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrEmptyMessage is returned when a response is posted with no text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTrackingIDExhausted is returned when tracking-identifier generation
	// kept colliding past the retry budget. Practically unreachable with a
	// healthy store.
	ErrTrackingIDExhausted = errors.New("could not allocate a unique tracking id")
)

// Identity errors.
var (
	// ErrEmailTaken indicates that registration targeted an email address
	// that already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for unknown accounts and wrong
	// passwords alike, so login failures do not reveal which it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when a registration password is shorter
	// than the required minimum (8 characters).
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// invalidf wraps ErrInvalidInput with field-level detail, so handlers can
// both match errors.Is(err, ErrInvalidInput) and surface the message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
