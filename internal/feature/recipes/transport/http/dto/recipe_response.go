// Package dto はrecipesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "food_logger/internal/feature/recipes/domain/entity"

// AddRecipeReq は POST /home/recipes/add のフォームです。
// リストは同名フィールドの繰り返しで送信されます。
type AddRecipeReq struct {
	RecipeName  string   `form:"recipeName" json:"recipeName"`
	Ingredients []string `form:"ingredients" json:"ingredients"`
	Steps       []string `form:"steps" json:"steps"`
}

// RecipeResponse はレシピのレスポンスDTOです。
type RecipeResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"recipeName"`
	UserID      uint     `json:"userId"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	CreatedAt   string   `json:"createdAt"` // RFC3339
}

// RecipeListResponse は GET /home/recipes のレスポンスです。
type RecipeListResponse struct {
	Recipes []RecipeResponse `json:"recipes"`
}

// RecipeDetailResponse は GET /home/recipes/:recipeId のレスポンスです。
type RecipeDetailResponse struct {
	Recipe RecipeResponse `json:"recipe"`
}

// FormErrorResponse はフォーム検証エラーのレスポンスです。Indexはリスト項目のエラー時のみ設定されます。
type FormErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// NewRecipeResponse はドメインのレシピをレスポンスDTOに変換します。
func NewRecipeResponse(r entity.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		UserID:      r.UserID,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		CreatedAt:   r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
