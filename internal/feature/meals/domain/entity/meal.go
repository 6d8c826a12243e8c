// Package entity defines the domain models for the meals feature.
package entity

import (
	"time"

	authentity "food_logger/internal/feature/auth/domain/entity"
	recipeentity "food_logger/internal/feature/recipes/domain/entity"
)

// Status is the lifecycle state of a logged meal.
type Status string

const (
	StatusInitial Status = "initial"
	StatusTodo    Status = "todo"
	StatusCooked  Status = "cooked"
	StatusOverdue Status = "overdue"
	StatusSkipped Status = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInitial, StatusTodo, StatusCooked, StatusOverdue, StatusSkipped:
		return true
	}
	return false
}

// Meal is a meal a user planned or ate, together with the recipes (dishes) in it.
type Meal struct {
	ID          uint       `gorm:"column:meal_id;primaryKey"`
	UserID      uint       `gorm:"not null;index"`
	Status      Status     `gorm:"size:16;not null;default:initial"`
	PlannedDate *time.Time `gorm:"type:date"`
	CookedDate  *time.Time `gorm:"type:date"`
	Notes       string     `gorm:"column:meal_notes;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Dishes []Dish `gorm:"foreignKey:MealID;references:ID;constraint:OnDelete:CASCADE"`

	// User only declares the foreign key for migrations.
	User authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM.
func (Meal) TableName() string {
	return "meals"
}

// Dish links a meal to a recipe. A recipe appears at most once per meal.
type Dish struct {
	MealID    uint   `gorm:"primaryKey;autoIncrement:false"`
	RecipeID  uint   `gorm:"primaryKey;autoIncrement:false;index"`
	Notes     string `gorm:"column:dish_notes;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Recipe only declares the foreign key for migrations.
	Recipe recipeentity.RecipeRecord `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM.
func (Dish) TableName() string {
	return "dishes"
}

// RecipeIDs returns the recipe ids of the meal's dishes in order.
func (m *Meal) RecipeIDs() []uint {
	ids := make([]uint, 0, len(m.Dishes))
	for _, d := range m.Dishes {
		ids = append(ids, d.RecipeID)
	}
	return ids
}
