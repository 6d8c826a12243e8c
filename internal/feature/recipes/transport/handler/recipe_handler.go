// Package handler はrecipesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food_logger/internal/feature/recipes/domain/entity"
	"food_logger/internal/feature/recipes/transport/http/dto"
	"food_logger/internal/feature/recipes/usecase"
	"food_logger/internal/platform/session"
)

const recipesPath = "/home/recipes"

// RecipeUsecase はレシピ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RecipeUsecase interface {
	AddRecipe(ctx context.Context, userID uint, name string, ingredients, steps []string) (uint, error)
	ListByUser(ctx context.Context, userID uint) ([]entity.Recipe, error)
	GetByID(ctx context.Context, id uint) (entity.Recipe, bool, error)
}

// RecipeHandler はレシピのHTTPリクエストを処理します。
type RecipeHandler struct {
	uc RecipeUsecase
}

// NewRecipeHandler は指定されたusecaseでRecipeHandlerの新しいインスタンスを生成します。
func NewRecipeHandler(uc RecipeUsecase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

// List はログインユーザーのレシピ一覧を返します。
//
// エンドポイント例:
// GET /home/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, session.LoginRedirect(c.Request.URL.RequestURI()))
		return
	}

	recipes, err := h.uc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list recipes", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, dto.NewRecipeResponse(r))
	}
	c.JSON(http.StatusOK, dto.RecipeListResponse{Recipes: out})
}

// Add はレシピ登録フォームを処理し、成功時は一覧へ303リダイレクトします。
//
// エンドポイント例:
// POST /home/recipes/add (recipeName, ingredients..., steps...)
func (h *RecipeHandler) Add(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, session.LoginRedirect(c.Request.URL.RequestURI()))
		return
	}

	var req dto.AddRecipeReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("recipe form binding failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, dto.FormErrorResponse{Error: "invalid form"})
		return
	}

	id, err := h.uc.AddRecipe(c.Request.Context(), userID, req.RecipeName, req.Ingredients, req.Steps)
	if err != nil {
		status, body := addRecipeError(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to add recipe", "error", err, "user_id", userID)
		} else {
			slog.Warn("recipe rejected", "error", err, "user_id", userID)
		}
		c.JSON(status, body)
		return
	}

	slog.Info("recipe added", "recipe_id", id, "user_id", userID)
	c.Redirect(http.StatusSeeOther, recipesPath)
}

// Detail は1件のレシピを返します。
// IDが数値でなければトップへ、他ユーザーのレシピや存在しないIDは404を返します。
//
// エンドポイント例:
// GET /home/recipes/12
func (h *RecipeHandler) Detail(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, session.LoginRedirect(c.Request.URL.RequestURI()))
		return
	}

	id, err := strconv.ParseUint(c.Param("recipeId"), 10, 64)
	if err != nil || id == 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}

	recipe, found, err := h.uc.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		slog.Error("failed to get recipe", "error", err, "recipe_id", id, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	// 他ユーザーのレシピは存在しないものとして扱う
	if !found || recipe.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, dto.RecipeDetailResponse{Recipe: dto.NewRecipeResponse(recipe)})
}

// addRecipeError はユースケースのエラーをステータスコードとレスポンスに変換します。
func addRecipeError(err error) (int, dto.FormErrorResponse) {
	var itemErr *usecase.ListItemError
	switch {
	case errors.As(err, &itemErr):
		idx := itemErr.Index
		return http.StatusBadRequest, dto.FormErrorResponse{Error: itemErr.Reason, Field: itemErr.Field, Index: &idx}
	case errors.Is(err, usecase.ErrRecipeNameRequired), errors.Is(err, usecase.ErrRecipeNameTooLong):
		return http.StatusBadRequest, dto.FormErrorResponse{Error: err.Error(), Field: "recipeName"}
	case errors.Is(err, usecase.ErrDuplicateRecipeName):
		return http.StatusConflict, dto.FormErrorResponse{Error: "a recipe with this name already exists", Field: "recipeName"}
	}
	return http.StatusInternalServerError, dto.FormErrorResponse{Error: "internal server error"}
}
