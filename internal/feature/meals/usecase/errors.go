// Package usecase implements the business logic for the meals feature.
package usecase

import "errors"

var (
	// ErrMealCreateCountMismatch is returned when an insert of meals or dishes does not
	// report the requested number of rows. The transaction is rolled back.
	ErrMealCreateCountMismatch = errors.New("meal insert row count mismatch")

	// ErrDuplicateDish is returned when the same recipe is added twice to one meal.
	ErrDuplicateDish = errors.New("recipe already added to this meal")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid meal status")

	// ErrNoRecipes is returned when a meal is logged without any recipe.
	ErrNoRecipes = errors.New("at least one recipe is required")

	// ErrRecipeNotOwned is returned when a recipe id is unknown or belongs to another user.
	ErrRecipeNotOwned = errors.New("recipe not found")
)
