// Package entity defines the domain entities for the recipes feature.
package entity

import (
	"time"

	authentity "food_logger/internal/feature/auth/domain/entity"
)

// Recipe is a user's recipe with its ingredients and steps as ordered lists.
type Recipe struct {
	ID          uint
	UserID      uint
	Name        string
	Ingredients []string
	Steps       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeRecord is the persisted form of a Recipe. Ingredient and step lists
// are stored as newline-joined text.
type RecipeRecord struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"column:recipe_name;size:256;not null;uniqueIndex:idx_recipes_user_name,priority:2"`
	UserID uint   `gorm:"not null;index;uniqueIndex:idx_recipes_user_name,priority:1"`

	IngredientList string `gorm:"type:text;not null"`
	RecipeSteps    string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// User only declares the foreign key for migrations. It is never loaded or saved.
	User authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM.
func (RecipeRecord) TableName() string {
	return "recipes"
}
