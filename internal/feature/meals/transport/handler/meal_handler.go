// Package handler はmealsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"food_logger/internal/feature/meals/domain/entity"
	"food_logger/internal/feature/meals/transport/http/dto"
	"food_logger/internal/feature/meals/usecase"
	"food_logger/internal/platform/session"
)

const mealsPath = "/home/meals"

// MealUsecase は食事記録のユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type MealUsecase interface {
	LogMeal(ctx context.Context, userID uint, in usecase.LogMealInput) (uint, error)
	ListByUser(ctx context.Context, userID uint) ([]entity.Meal, error)
}

// MealHandler は食事記録に関するHTTPリクエストを処理します。
type MealHandler struct {
	uc MealUsecase
}

// NewMealHandler は新しい MealHandler を作成します。
func NewMealHandler(uc MealUsecase) *MealHandler {
	return &MealHandler{uc: uc}
}

// List はログインユーザーの食事一覧を新しい順に返します。
func (h *MealHandler) List(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, session.LoginRedirect(c.Request.URL.RequestURI()))
		return
	}
	meals, err := h.uc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list meals", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	out := make([]dto.MealItem, 0, len(meals))
	for _, m := range meals {
		out = append(out, dto.NewMealItem(m))
	}
	c.JSON(http.StatusOK, dto.MealListResponse{Meals: out})
}

// Log は食事記録フォームを処理し、成功時は一覧へ303リダイレクトします。
func (h *MealHandler) Log(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, session.LoginRedirect(c.Request.URL.RequestURI()))
		return
	}

	var req dto.LogMealReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("meal form binding failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	planned, err := parseDate(req.PlannedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plannedDate must be YYYY-MM-DD", "field": "plannedDate"})
		return
	}
	cooked, err := parseDate(req.CookedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cookedDate must be YYYY-MM-DD", "field": "cookedDate"})
		return
	}

	id, err := h.uc.LogMeal(c.Request.Context(), userID, usecase.LogMealInput{
		Status:      req.Status,
		PlannedDate: planned,
		CookedDate:  cooked,
		Notes:       req.Notes,
		RecipeIDs:   req.RecipeIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": usecase.ErrInvalidStatus.Error(), "field": "status"})
		case errors.Is(err, usecase.ErrNoRecipes), errors.Is(err, usecase.ErrRecipeNotOwned):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "recipeIds"})
		case errors.Is(err, usecase.ErrDuplicateDish):
			c.JSON(http.StatusConflict, gin.H{"error": usecase.ErrDuplicateDish.Error(), "field": "recipeIds"})
		default:
			slog.Error("failed to log meal", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	slog.Info("meal logged", "meal_id", id, "user_id", userID)
	c.Redirect(http.StatusSeeOther, mealsPath)
}

// parseDate は空文字列をnilとして扱います。
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
