// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is outside the caller's branch.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict signals a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized signals a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an authenticated caller without the required role or branch.
	ErrForbidden = errors.New("forbidden")
	// ErrCapacityReached signals a fully booked class.
	ErrCapacityReached = errors.New("class is full")
	// ErrPromoInvalid signals an unusable promo code.
	ErrPromoInvalid = errors.New("promo code is not valid")
	// ErrSignatureMismatch signals a payment signature that failed verification.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrIntegrationDisabled signals an integration that is not configured or switched off.
	ErrIntegrationDisabled = errors.New("integration disabled")
	// ErrUpstream signals a failure in a third-party API.
	ErrUpstream = errors.New("upstream error")
	// ErrInvalidTransition signals a forbidden status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)
