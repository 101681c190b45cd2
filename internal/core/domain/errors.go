package domain

import "errors"

// Sentinel errors for customer and credential operations.
var (
	// ErrCustomerNotFound indicates the requested customer does not exist.
	// HTTP Status: 404 Not Found
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrDuplicatePhone indicates another customer already owns the phone number.
	// HTTP Status: 409 Conflict
	ErrDuplicatePhone = errors.New("phone number already in use")

	// ErrDuplicateEmail indicates another customer already owns the email.
	// HTTP Status: 409 Conflict
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrUserNotFound indicates the credential record does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates a user with the same username already exists.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("username already exists")

	// ErrInvalidCredentials indicates a username/password mismatch.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")
)
