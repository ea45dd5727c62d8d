package service

import "errors"

var (
	// ErrMissingCustomerFields is returned when userId, email or name is absent.
	ErrMissingCustomerFields = errors.New("missing required fields: userId, email, name")

	// ErrMissingMethodSource is returned unless exactly one of a card token or
	// a payment method id is supplied.
	ErrMissingMethodSource = errors.New("missing required fields: userId and exactly one of token or paymentMethodId")

	// ErrCustomerNotFound is returned when no billing customer exists for a user.
	ErrCustomerNotFound = errors.New("customer not found, create customer first")

	// ErrInvalidUserID is returned when the user id is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRideID is returned when the ride id is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidPaymentMethodID is returned when the payment method id is empty.
	ErrInvalidPaymentMethodID = errors.New("invalid payment method id")

	// ErrInvalidAmount is returned when the charge amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidEmail is returned when the target email is empty.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrMissingDescription is returned when an admin invoice has no description.
	ErrMissingDescription = errors.New("description is required")

	// ErrUserNotFound is returned when no user exists for the given email.
	ErrUserNotFound = errors.New("no user found for email")

	// ErrNoDefaultPaymentMethod is returned when an admin invoice targets a
	// user without a chargeable default method.
	ErrNoDefaultPaymentMethod = errors.New("user has no default payment method, user must add a card")

	// ErrInvalidRating is returned when a rating falls outside 0..5.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrInvalidRatingDirection is returned for an unrecognized direction.
	ErrInvalidRatingDirection = errors.New("invalid rating direction")

	// ErrInputTooShort is returned when an autocomplete input is under 2 chars.
	ErrInputTooShort = errors.New("input must be at least 2 characters")

	// ErrMissingPlaceID is returned when a details request has no place id.
	ErrMissingPlaceID = errors.New("placeId is required")
)
