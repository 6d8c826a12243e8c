// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned by the store when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when the username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrBulkCreateCountMismatch is returned when a bulk insert reports a different
	// row count than requested. The transaction is rolled back.
	ErrBulkCreateCountMismatch = errors.New("bulk create row count mismatch")

	// ErrUsernameRequired is returned when the username is blank.
	ErrUsernameRequired = errors.New("username is required")

	// ErrInvalidEmail is returned when the email is empty or not a valid address.
	ErrInvalidEmail = errors.New("email is not a valid address")

	// ErrPasswordTooShort is returned when the password is shorter than minPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
)

// ExistingUsernameOrEmailError reports a registration conflict and which
// fields collided with an existing account.
type ExistingUsernameOrEmailError struct {
	Username bool
	Email    bool
}

func (e *ExistingUsernameOrEmailError) Error() string {
	switch {
	case e.Username && e.Email:
		return "username and email already exist"
	case e.Username:
		return "username already exists"
	case e.Email:
		return "email already exists"
	}
	return ErrDuplicateUser.Error()
}

// Unwrap lets callers match the error with errors.Is(err, ErrDuplicateUser).
func (e *ExistingUsernameOrEmailError) Unwrap() error { return ErrDuplicateUser }
