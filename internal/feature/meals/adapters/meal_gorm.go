// Package adapters はmealsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"food_logger/internal/feature/meals/domain/entity"
	"food_logger/internal/feature/meals/usecase"
	"food_logger/internal/platform/db"
)

// mealGorm はMealRepositoryインターフェースのGORM実装です。
type mealGorm struct {
	db *gorm.DB
}

var _ usecase.MealRepository = (*mealGorm)(nil)

// NewMealGorm は指定されたDB接続でmealGormの新しいインスタンスを生成します。
func NewMealGorm(db *gorm.DB) *mealGorm {
	return &mealGorm{db: db}
}

// Create は食事とその料理を1つのトランザクションで追加し、食事IDを返します。
func (r *mealGorm) Create(ctx context.Context, meal *entity.Meal) (uint, error) {
	if meal == nil {
		return 0, errors.New("meal is nil")
	}
	ids, err := r.BulkCreate(ctx, []*entity.Meal{meal})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// BulkCreate は複数の食事と料理を1つのトランザクションで追加し、IDを入力順に返します。
// 挿入件数が一致しない場合はすべてロールバックします。
func (r *mealGorm) BulkCreate(ctx context.Context, meals []*entity.Meal) ([]uint, error) {
	if len(meals) == 0 {
		return []uint{}, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Create(meals)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(meals)) {
			return usecase.ErrMealCreateCountMismatch
		}

		var dishes []*entity.Dish
		for _, m := range meals {
			for i := range m.Dishes {
				m.Dishes[i].MealID = m.ID
				dishes = append(dishes, &m.Dishes[i])
			}
		}
		if len(dishes) == 0 {
			return nil
		}
		res = tx.Omit(clause.Associations).Create(dishes)
		if res.Error != nil {
			if db.IsDuplicateKey(res.Error) {
				return usecase.ErrDuplicateDish
			}
			return res.Error
		}
		if res.RowsAffected != int64(len(dishes)) {
			return usecase.ErrMealCreateCountMismatch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// FindByUserID はユーザーの食事を料理付きで新しい順に返します。
func (r *mealGorm) FindByUserID(ctx context.Context, userID uint) ([]entity.Meal, error) {
	meals := []entity.Meal{}
	if err := r.db.WithContext(ctx).
		Preload("Dishes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipe_id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("meal_id DESC").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}
