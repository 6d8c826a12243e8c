// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"food_logger/internal/feature/auth/domain/entity"
	"food_logger/internal/feature/auth/usecase"
	"food_logger/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// MySQL・PostgreSQL・SQLiteのいずれの接続でも動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// トランザクション内で使う場合はtxを渡します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// ユーザー名またはメールアドレスが重複する場合、usecase.ErrDuplicateUserを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrDuplicateUser
		}
		return err
	}
	return nil
}

// BulkCreate は複数ユーザーを1つのトランザクションで追加し、採番されたIDを返します。
// 挿入件数が要求数と一致しない場合はロールバックしてusecase.ErrBulkCreateCountMismatchを返します。
func (r *userGorm) BulkCreate(ctx context.Context, users []*entity.User) ([]uint, error) {
	if len(users) == 0 {
		return []uint{}, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Create(users)
		if res.Error != nil {
			if db.IsDuplicateKey(res.Error) {
				return usecase.ErrDuplicateUser
			}
			return res.Error
		}
		if res.RowsAffected != int64(len(users)) {
			return usecase.ErrBulkCreateCountMismatch
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmailOrUsername はメールアドレスまたはユーザー名が一致するユーザーをすべて返します。
// 一致がない場合は空のスライスを返します。
func (r *userGorm) FindByEmailOrUsername(ctx context.Context, email, username string) ([]entity.User, error) {
	users := []entity.User{}
	if err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		Order("id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
