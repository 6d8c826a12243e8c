package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"food_logger/internal/feature/recipes/domain/entity"
)

const (
	// maxRecipeNameLength はレシピ名の最大文字数です。
	maxRecipeNameLength = 256

	// lineSeparator はリストを1つのテキスト列に保存する際の区切り文字です。
	lineSeparator = "\n"

	FieldIngredients = "ingredients"
	FieldSteps       = "steps"
)

// RecipeRepository はレシピの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RecipeRepository interface {
	// Create はレシピを1件追加し、採番されたIDを返します。
	Create(ctx context.Context, rec *entity.RecipeRecord) (uint, error)
	// FindByUserID はユーザーのレシピをすべて返します。0件の場合は空スライスです。
	FindByUserID(ctx context.Context, userID uint) ([]entity.RecipeRecord, error)
	// FindByID はIDでレシピを取得します。存在しない場合はErrRecipeNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.RecipeRecord, error)
}

// recipeUsecase はレシピの登録と参照を実装します。
type recipeUsecase struct {
	recipes RecipeRepository
}

// NewRecipeUsecase は新しいrecipeUsecaseを生成します。
func NewRecipeUsecase(recipes RecipeRepository) *recipeUsecase {
	return &recipeUsecase{recipes: recipes}
}

// AddRecipe はレシピを検証して保存し、IDを返します。
// 各要素は前後の空白を除去して保存します。検証に失敗した場合ストアは呼び出しません。
func (u *recipeUsecase) AddRecipe(ctx context.Context, userID uint, name string, ingredients, steps []string) (uint, error) {
	rec, err := NewRecord(userID, name, ingredients, steps)
	if err != nil {
		return 0, err
	}
	id, err := u.recipes.Create(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("failed to create recipe: %w", err)
	}
	return id, nil
}

// ListByUser はユーザーのレシピ一覧を返します。
func (u *recipeUsecase) ListByUser(ctx context.Context, userID uint) ([]entity.Recipe, error) {
	recs, err := u.recipes.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	out := make([]entity.Recipe, 0, len(recs))
	for _, r := range recs {
		out = append(out, ToRecipe(r))
	}
	return out, nil
}

// GetByID はIDでレシピを取得します。存在しない場合は ok=false を返します。
func (u *recipeUsecase) GetByID(ctx context.Context, id uint) (entity.Recipe, bool, error) {
	rec, err := u.recipes.FindByID(ctx, id)
	if errors.Is(err, ErrRecipeNotFound) {
		return entity.Recipe{}, false, nil
	}
	if err != nil {
		return entity.Recipe{}, false, fmt.Errorf("failed to get recipe: %w", err)
	}
	return ToRecipe(*rec), true, nil
}

// NewRecord は入力を検証し、保存用のレコードを組み立てます。
func NewRecord(userID uint, name string, ingredients, steps []string) (*entity.RecipeRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRecipeNameRequired
	}
	if utf8.RuneCountInString(name) > maxRecipeNameLength {
		return nil, ErrRecipeNameTooLong
	}
	ing, err := normalizeList(FieldIngredients, "ingredient", ingredients, ErrIngredientFormat)
	if err != nil {
		return nil, err
	}
	st, err := normalizeList(FieldSteps, "recipe step", steps, ErrStepFormat)
	if err != nil {
		return nil, err
	}
	return &entity.RecipeRecord{
		UserID:         userID,
		Name:           name,
		IngredientList: JoinLines(ing),
		RecipeSteps:    JoinLines(st),
	}, nil
}

// normalizeList は各要素をトリムし、空要素や改行を含む要素を拒否します。
func normalizeList(field, label string, items []string, sentinel error) ([]string, error) {
	if len(items) == 0 {
		return nil, &ListItemError{Field: field, Index: 0, Reason: "at least one " + label + " is required", Err: sentinel}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			return nil, &ListItemError{Field: field, Index: i, Reason: label + " cannot be empty", Err: sentinel}
		}
		// 区切り文字を含むと読み出し時に要素数が変わる
		if strings.ContainsAny(trimmed, "\r\n") {
			return nil, &ListItemError{Field: field, Index: i, Reason: label + " cannot contain line breaks", Err: sentinel}
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// ToRecipe は保存用レコードをドメインのレシピに変換します。
func ToRecipe(r entity.RecipeRecord) entity.Recipe {
	return entity.Recipe{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Ingredients: SplitLines(r.IngredientList),
		Steps:       SplitLines(r.RecipeSteps),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// JoinLines はリストを改行区切りのテキストにします。
func JoinLines(items []string) string {
	return strings.Join(items, lineSeparator)
}

// SplitLines は改行区切りのテキストをリストに戻します。空文字列は空スライスになります。
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, lineSeparator)
}
