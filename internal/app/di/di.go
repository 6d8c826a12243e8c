// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "food_logger/internal/feature/auth/adapters"
	authentity "food_logger/internal/feature/auth/domain/entity"
	authhandler "food_logger/internal/feature/auth/transport/handler"
	authusecase "food_logger/internal/feature/auth/usecase"
	mealadapters "food_logger/internal/feature/meals/adapters"
	mealentity "food_logger/internal/feature/meals/domain/entity"
	mealhandler "food_logger/internal/feature/meals/transport/handler"
	mealusecase "food_logger/internal/feature/meals/usecase"
	recipeadapters "food_logger/internal/feature/recipes/adapters"
	recipeentity "food_logger/internal/feature/recipes/domain/entity"
	recipehandler "food_logger/internal/feature/recipes/transport/handler"
	recipeusecase "food_logger/internal/feature/recipes/usecase"
	platformhandler "food_logger/internal/platform/http/handler"
	"food_logger/internal/platform/session"
	"food_logger/internal/shared/ratelimiter"
)

// Handlers はルーターに渡すHTTPハンドラー一式です。
type Handlers struct {
	Health  *platformhandler.HealthHandler
	Auth    *authhandler.AuthHandler
	Recipes *recipehandler.RecipeHandler
	Meals   *mealhandler.MealHandler
}

// Models returns every persisted model in dependency order, for AutoMigrate.
func Models() []any {
	return []any{
		&authentity.User{},
		&recipeentity.RecipeRecord{},
		&mealentity.Meal{},
		&mealentity.Dish{},
	}
}

// NewHandlers wires stores, usecases and handlers on top of a single *gorm.DB pool.
func NewHandlers(db *gorm.DB, sessions *session.Manager, bcryptCost int) (*Handlers, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	recipeRepo := recipeadapters.NewRecipeGorm(db)
	mealRepo := mealadapters.NewMealGorm(db)

	// Usecase
	accountUC := authusecase.NewAccountUsecase(userRepo, bcryptCost)
	recipeUC := recipeusecase.NewRecipeUsecase(recipeRepo)
	mealUC := mealusecase.NewMealUsecase(mealRepo, recipeUC)

	// Handler
	return &Handlers{
		Health:  platformhandler.NewHealthHandler(sqlDB),
		Auth:    authhandler.NewAuthHandler(accountUC, sessions),
		Recipes: recipehandler.NewRecipeHandler(recipeUC),
		Meals:   mealhandler.NewMealHandler(mealUC),
	}, nil
}

// NewLoginLimiter creates the login attempt limiter.
// If Redis is unavailable it returns nil and login attempts are not throttled.
func NewLoginLimiter(rdb *redis.Client, attempts int, window time.Duration) ratelimiter.Limiter {
	if rdb == nil || attempts <= 0 {
		return nil
	}
	return ratelimiter.NewRedisLimiter(rdb, "login", attempts, window)
}
