// Package adapters はrecipesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"food_logger/internal/feature/recipes/domain/entity"
	"food_logger/internal/feature/recipes/usecase"
	"food_logger/internal/platform/db"
)

type recipeGorm struct {
	db *gorm.DB
}

var _ usecase.RecipeRepository = (*recipeGorm)(nil)

// NewRecipeGorm はレシピストアを生成します。トランザクション内で使う場合はtxを渡します。
func NewRecipeGorm(db *gorm.DB) *recipeGorm {
	return &recipeGorm{db: db}
}

// Create はレシピを1件追加します。
// 挿入件数がちょうど1件でない場合はロールバックしてErrRecipeCreateCountMismatchを返します。
func (r *recipeGorm) Create(ctx context.Context, rec *entity.RecipeRecord) (uint, error) {
	if rec == nil {
		return 0, errors.New("recipe is nil")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Create(rec)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected != 1 {
			return usecase.ErrRecipeCreateCountMismatch
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// BulkCreate は複数レシピを1つのトランザクションで追加し、IDを入力順に返します。
func (r *recipeGorm) BulkCreate(ctx context.Context, recs []*entity.RecipeRecord) ([]uint, error) {
	if len(recs) == 0 {
		return []uint{}, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Create(recs)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected != int64(len(recs)) {
			return usecase.ErrRecipeCreateCountMismatch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

// FindByUserID はユーザーのレシピをID順で返します。
func (r *recipeGorm) FindByUserID(ctx context.Context, userID uint) ([]entity.RecipeRecord, error) {
	recs := []entity.RecipeRecord{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// FindByID はIDでレシピを取得します。
// 主キー検索で2件以上返った場合はErrRecipeIntegrityを返します。
func (r *recipeGorm) FindByID(ctx context.Context, id uint) (*entity.RecipeRecord, error) {
	var recs []entity.RecipeRecord
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Limit(2).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	switch len(recs) {
	case 0:
		return nil, usecase.ErrRecipeNotFound
	case 1:
		return &recs[0], nil
	}
	return nil, usecase.ErrRecipeIntegrity
}

func translateError(err error) error {
	if db.IsDuplicateKey(err) {
		return usecase.ErrDuplicateRecipeName
	}
	return err
}
