// Package usecase implements the business logic for the recipes feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrRecipeNotFound is returned by the store when no recipe has the given ID.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrDuplicateRecipeName is returned when the user already has a recipe with the same name.
	ErrDuplicateRecipeName = errors.New("recipe name already exists")

	// ErrRecipeCreateCountMismatch is returned when an insert does not report exactly
	// the requested number of rows. The transaction is rolled back.
	ErrRecipeCreateCountMismatch = errors.New("recipe insert row count mismatch")

	// ErrRecipeIntegrity is returned when a lookup by primary key yields more than one row.
	ErrRecipeIntegrity = errors.New("recipe lookup returned more than one row")

	// ErrRecipeNameRequired is returned when the recipe name is blank.
	ErrRecipeNameRequired = errors.New("recipe name is required")

	// ErrRecipeNameTooLong is returned when the recipe name exceeds maxRecipeNameLength.
	ErrRecipeNameTooLong = fmt.Errorf("recipe name must be at most %d characters", maxRecipeNameLength)

	// ErrIngredientFormat is wrapped by ListItemError for invalid ingredients.
	ErrIngredientFormat = errors.New("invalid ingredient")

	// ErrStepFormat is wrapped by ListItemError for invalid recipe steps.
	ErrStepFormat = errors.New("invalid recipe step")
)

// ListItemError identifies the list element that failed validation.
type ListItemError struct {
	Field  string // "ingredients" or "steps"
	Index  int
	Reason string
	Err    error
}

func (e *ListItemError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Reason)
}

func (e *ListItemError) Unwrap() error { return e.Err }
