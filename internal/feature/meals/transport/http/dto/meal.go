// Package dto defines data transfer objects for the meals HTTP API.
package dto

import "food_logger/internal/feature/meals/domain/entity"

// DateLayout is the format of planned and cooked dates in forms and responses.
const DateLayout = "2006-01-02"

// LogMealReq is the form posted to POST /home/meals.
// recipeIds is sent as a repeated field.
type LogMealReq struct {
	Status      string `form:"status" json:"status"`
	PlannedDate string `form:"plannedDate" json:"plannedDate"`
	CookedDate  string `form:"cookedDate" json:"cookedDate"`
	Notes       string `form:"notes" json:"notes"`
	RecipeIDs   []uint `form:"recipeIds" json:"recipeIds"`
}

// MealItem represents a meal in the API response.
type MealItem struct {
	ID          uint    `json:"id"`
	Status      string  `json:"status"`
	PlannedDate *string `json:"plannedDate"`
	CookedDate  *string `json:"cookedDate"`
	Notes       string  `json:"notes"`
	RecipeIDs   []uint  `json:"recipeIds"`
	CreatedAt   string  `json:"createdAt"`
}

// MealListResponse is the body of GET /home/meals.
type MealListResponse struct {
	Meals []MealItem `json:"meals"`
}

// NewMealItem converts a meal into its response form.
func NewMealItem(m entity.Meal) MealItem {
	item := MealItem{
		ID:        m.ID,
		Status:    string(m.Status),
		Notes:     m.Notes,
		RecipeIDs: m.RecipeIDs(),
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if m.PlannedDate != nil {
		s := m.PlannedDate.Format(DateLayout)
		item.PlannedDate = &s
	}
	if m.CookedDate != nil {
		s := m.CookedDate.Format(DateLayout)
		item.CookedDate = &s
	}
	return item
}
