// Package seed はデモ用のユーザー・レシピ・食事データを投入します。
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authadapters "food_logger/internal/feature/auth/adapters"
	authentity "food_logger/internal/feature/auth/domain/entity"
	mealadapters "food_logger/internal/feature/meals/adapters"
	mealentity "food_logger/internal/feature/meals/domain/entity"
	recipeadapters "food_logger/internal/feature/recipes/adapters"
	recipeentity "food_logger/internal/feature/recipes/domain/entity"
	recipeusecase "food_logger/internal/feature/recipes/usecase"
)

// DemoPassword は全デモユーザー共通のパスワードです。
const DemoPassword = "asd123456"

// Options は投入時の挙動を指定します。
type Options struct {
	// Truncate が true の場合、投入前に全テーブルを空にします。
	Truncate   bool
	BcryptCost int
}

// Result は投入した行のIDです。
type Result struct {
	UserIDs   []uint
	RecipeIDs []uint
	MealIDs   []uint
}

type demoUser struct {
	username, email string
}

type demoRecipe struct {
	owner       int // demoUsers のインデックス
	name        string
	ingredients []string
	steps       []string
}

type demoMeal struct {
	owner   int
	notes   string
	recipes []int // demoRecipes のインデックス
}

var demoUsers = []demoUser{
	{"garfield", "garfield@example.com"},
	{"john_arbuckle", "john_arbuckle@example.com"},
	{"odie", "odiee@example.com"},
}

var demoRecipes = []demoRecipe{
	{
		owner: 0,
		name:  "famous lasagna",
		ingredients: []string{
			"1 lbs ground beef", "1 16 oz can tomato sauce", "lasagna noodles", "salt", "pepper",
		},
		steps: []string{
			"brown beef for 10 minutes", "add tomato sauce to pot", "add salt and pepper to mixture",
			"layer mixture with noodles", "bake at 350F until done",
		},
	},
	{
		owner:       1,
		name:        "huge sandwich",
		ingredients: []string{"1 lbs deli ham", "1 lbs swiss cheese slices", "2 slices bread"},
		steps: []string{
			"put bread down", "put on cheese slices", "put on deli ham slices", "cover with rest of bread",
		},
	},
	{
		owner:       2,
		name:        "boiled water",
		ingredients: []string{"2 lbs water", "salt to taste"},
		steps:       []string{"put water in pan", "add salt until flavorful", "heat water until boiling"},
	},
	{
		owner:       0,
		name:        "spaghetti with meatballs",
		ingredients: []string{"1 lbs ground beef", "1 lbs dry spaghetti", "1 15 oz can crushed tomatoes"},
		steps: []string{
			"brown beef", "cook spaghetti until al dente",
			"mix cooked beef and spaghetti with crushed tomatoes and simmer for 10 minutes",
		},
	},
}

// すべてgarfieldの食事。他ユーザーのレシピも含む。
var demoMeals = []demoMeal{
	{owner: 0, notes: "oven might run a little cold based on something?", recipes: []int{0}},
	{owner: 0, recipes: []int{1}},
	{owner: 0, notes: "the water was a little undercooked", recipes: []int{2, 3}},
}

// Run はデモデータを1つのトランザクションで投入します。途中で失敗した場合は何も残りません。
func Run(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	cost := opts.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash demo password: %w", err)
	}

	var res Result
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Truncate {
			if err := truncate(tx); err != nil {
				return err
			}
		}

		users := make([]*authentity.User, 0, len(demoUsers))
		for _, u := range demoUsers {
			users = append(users, &authentity.User{Username: u.username, Email: u.email, Password: string(hash)})
		}
		slog.Info("creating users", "count", len(users))
		userIDs, err := authadapters.NewUserGorm(tx).BulkCreate(ctx, users)
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}

		recs := make([]*recipeentity.RecipeRecord, 0, len(demoRecipes))
		for _, r := range demoRecipes {
			rec, err := recipeusecase.NewRecord(userIDs[r.owner], r.name, r.ingredients, r.steps)
			if err != nil {
				return fmt.Errorf("invalid demo recipe %q: %w", r.name, err)
			}
			recs = append(recs, rec)
		}
		slog.Info("creating recipes", "count", len(recs))
		recipeIDs, err := recipeadapters.NewRecipeGorm(tx).BulkCreate(ctx, recs)
		if err != nil {
			return fmt.Errorf("failed to create recipes: %w", err)
		}

		meals := make([]*mealentity.Meal, 0, len(demoMeals))
		for _, m := range demoMeals {
			meal := &mealentity.Meal{UserID: userIDs[m.owner], Status: mealentity.StatusInitial, Notes: m.notes}
			for _, idx := range m.recipes {
				meal.Dishes = append(meal.Dishes, mealentity.Dish{RecipeID: recipeIDs[idx]})
			}
			meals = append(meals, meal)
		}
		slog.Info("creating meals and dishes", "count", len(meals))
		mealIDs, err := mealadapters.NewMealGorm(tx).BulkCreate(ctx, meals)
		if err != nil {
			return fmt.Errorf("failed to create meals: %w", err)
		}

		res = Result{UserIDs: userIDs, RecipeIDs: recipeIDs, MealIDs: mealIDs}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// truncate は外部キーの依存順に全行を削除します。
func truncate(tx *gorm.DB) error {
	slog.Info("truncating tables")
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&mealentity.Dish{}, &mealentity.Meal{}, &recipeentity.RecipeRecord{}, &authentity.User{}} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to truncate %T: %w", model, err)
		}
	}
	return nil
}
