package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food_logger/internal/feature/meals/domain/entity"
	recipeentity "food_logger/internal/feature/recipes/domain/entity"
)

// MealRepository abstracts the persistence layer for meals and their dishes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MealRepository interface {
	Create(ctx context.Context, meal *entity.Meal) (uint, error)
	FindByUserID(ctx context.Context, userID uint) ([]entity.Meal, error)
}

// RecipeFinder looks up recipes so meals can only reference the user's own recipes.
type RecipeFinder interface {
	GetByID(ctx context.Context, id uint) (recipeentity.Recipe, bool, error)
}

// LogMealInput is the data needed to log a meal.
type LogMealInput struct {
	Status      string
	PlannedDate *time.Time
	CookedDate  *time.Time
	Notes       string
	RecipeIDs   []uint
}

// MealUsecase provides business logic for meal operations.
type MealUsecase struct {
	meals   MealRepository
	recipes RecipeFinder
}

// NewMealUsecase creates a new MealUsecase.
func NewMealUsecase(meals MealRepository, recipes RecipeFinder) *MealUsecase {
	return &MealUsecase{meals: meals, recipes: recipes}
}

// LogMeal validates the input and stores the meal with one dish per distinct recipe.
// An empty status defaults to "initial".
func (u *MealUsecase) LogMeal(ctx context.Context, userID uint, in LogMealInput) (uint, error) {
	status := entity.Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = entity.StatusInitial
	}
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	recipeIDs := dedupe(in.RecipeIDs)
	if len(recipeIDs) == 0 {
		return 0, ErrNoRecipes
	}
	for _, id := range recipeIDs {
		recipe, ok, err := u.recipes.GetByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to look up recipe %d: %w", id, err)
		}
		if !ok || recipe.UserID != userID {
			return 0, fmt.Errorf("%w: %d", ErrRecipeNotOwned, id)
		}
	}

	meal := &entity.Meal{
		UserID:      userID,
		Status:      status,
		PlannedDate: in.PlannedDate,
		CookedDate:  in.CookedDate,
		Notes:       strings.TrimSpace(in.Notes),
		Dishes:      make([]entity.Dish, 0, len(recipeIDs)),
	}
	for _, id := range recipeIDs {
		meal.Dishes = append(meal.Dishes, entity.Dish{RecipeID: id})
	}

	id, err := u.meals.Create(ctx, meal)
	if err != nil {
		return 0, fmt.Errorf("failed to create meal: %w", err)
	}
	return id, nil
}

// ListByUser returns the user's meals, newest first.
func (u *MealUsecase) ListByUser(ctx context.Context, userID uint) ([]entity.Meal, error) {
	meals, err := u.meals.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// dedupe drops zero and repeated ids, keeping first occurrence order.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
