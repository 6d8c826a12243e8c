package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food_logger/internal/feature/auth/domain/entity"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// dummyHash はユーザーが存在しない場合のタイミング攻撃緩和用ハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// ユーザー名またはメールアドレスが重複する場合、ErrDuplicateUserを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmailOrUsername はメールアドレスまたはユーザー名が一致するすべてのユーザーを返します。
	FindByEmailOrUsername(ctx context.Context, email, username string) ([]entity.User, error)
}

// validate はginのbindingタグと同じルールでメールアドレスを検証します。
var validate = validator.New()

// accountUsecase はアカウント登録とログイン検証を実装します。
type accountUsecase struct {
	users UserRepository
	cost  int
}

// NewAccountUsecase はaccountUsecaseの新しいインスタンスを生成します。
// costが0以下の場合はbcrypt.DefaultCostを使用します。
func NewAccountUsecase(users UserRepository, cost int) *accountUsecase {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &accountUsecase{
		users: users,
		cost:  cost,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// validateEmail はメールアドレスが空でなく形式が正しいかチェックします。
func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Register は新規ユーザーを登録し、そのIDを返します。
// ハッシュ化の前に既存ユーザーとの重複をチェックし、ストレージ側の一意制約違反も同じエラーに変換します。
func (u *accountUsecase) Register(ctx context.Context, username, email, password string) (uint, error) {
	if strings.TrimSpace(username) == "" {
		return 0, ErrUsernameRequired
	}
	if err := validateEmail(email); err != nil {
		return 0, err
	}
	if err := validatePassword(password); err != nil {
		return 0, err
	}

	conflict, err := u.findConflict(ctx, email, username)
	if err != nil {
		return 0, err
	}
	if conflict != nil {
		return 0, conflict
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Username: username, Email: email, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		if !errors.Is(err, ErrDuplicateUser) {
			return 0, err
		}
		// 事前チェックと挿入の間に同じ値で登録された
		conflict, ferr := u.findConflict(ctx, email, username)
		if ferr != nil || conflict == nil {
			return 0, &ExistingUsernameOrEmailError{}
		}
		return 0, conflict
	}
	return user.ID, nil
}

// findConflict は重複するユーザーがいればどのフィールドが衝突したかを返します。
func (u *accountUsecase) findConflict(ctx context.Context, email, username string) (*ExistingUsernameOrEmailError, error) {
	existing, err := u.users.FindByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) == 0 {
		return nil, nil
	}
	conflict := &ExistingUsernameOrEmailError{}
	for _, e := range existing {
		conflict.Username = conflict.Username || e.Username == username
		conflict.Email = conflict.Email || e.Email == email
	}
	return conflict, nil
}

// VerifyLogin はメールアドレスとパスワードを検証し、成功時にパスワードを含まないプロフィールを返します。
// ユーザー未検出とパスワード不一致は区別せず、どちらも ok=false になります。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *accountUsecase) VerifyLogin(ctx context.Context, email, password string) (entity.Profile, bool, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return entity.Profile{}, false, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return entity.Profile{}, false, nil
	}
	return user.Profile(), true, nil
}

// GetProfile はIDでユーザーを取得します。存在しない場合は ok=false を返します。
func (u *accountUsecase) GetProfile(ctx context.Context, id uint) (entity.Profile, bool, error) {
	user, err := u.users.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return entity.Profile{}, false, nil
	}
	if err != nil {
		return entity.Profile{}, false, fmt.Errorf("failed to find user: %w", err)
	}
	return user.Profile(), true, nil
}
