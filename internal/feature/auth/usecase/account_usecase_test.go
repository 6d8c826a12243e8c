package usecase

import (
	"context"
	"errors"
	"testing"

	"food_logger/internal/feature/auth/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// It simulates database operations during testing.
type mockUserRepository struct {
	// CreateFunc is called when the Create method is invoked.
	CreateFunc func(ctx context.Context, user *entity.User) error
	// FindByEmailFunc is called when the FindByEmail method is invoked.
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	// FindByIDFunc is called when the FindByID method is invoked.
	FindByIDFunc func(ctx context.Context, id uint) (*entity.User, error)
	// FindByEmailOrUsernameFunc is called when the FindByEmailOrUsername method is invoked.
	FindByEmailOrUsernameFunc func(ctx context.Context, email, username string) ([]entity.User, error)

	createCalls int
}

// Create is the mock implementation of the Create method.
func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil // Default: success
}

// FindByEmail is the mock implementation of the FindByEmail method.
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound // Default: not found
}

// FindByID is the mock implementation of the FindByID method.
func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound // Default: not found
}

// FindByEmailOrUsername is the mock implementation of the FindByEmailOrUsername method.
func (m *mockUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) ([]entity.User, error) {
	if m.FindByEmailOrUsernameFunc != nil {
		return m.FindByEmailOrUsernameFunc(ctx, email, username)
	}
	return []entity.User{}, nil // Default: no conflicts
}

func TestAccountUsecase_Register(t *testing.T) {
	t.Parallel()

	t.Run("successful registration hashes the password", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				if user.Password == "password123" {
					t.Errorf("password is not hashed")
				}
				if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
					t.Errorf("invalid bcrypt hash: %v", err)
				}
				assert.Equal(t, "garfield", user.Username)
				assert.Equal(t, "garfield@example.com", user.Email)
				user.ID = 42
				return nil
			},
		}

		uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)
		id, err := uc.Register(context.Background(), "garfield", "garfield@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
	})

	t.Run("validation failures never reach the store", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			username string
			email    string
			password string
			wantErr  error
		}{
			{"blank username", "   ", "odie@example.com", "password123", ErrUsernameRequired},
			{"short password", "odie", "odie@example.com", "short", ErrPasswordTooShort},
			{"empty email", "odie", "", "password123", ErrInvalidEmail},
			{"email without domain", "odie", "odie@", "password123", ErrInvalidEmail},
			{"email without at sign", "odie", "odie.example.com", "password123", ErrInvalidEmail},
		}

		for _, tt := range tests {
			mockRepo := &mockUserRepository{
				FindByEmailOrUsernameFunc: func(ctx context.Context, email, username string) ([]entity.User, error) {
					t.Errorf("%s: store should not be queried", tt.name)
					return nil, nil
				},
			}
			uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)

			_, err := uc.Register(context.Background(), tt.username, tt.email, tt.password)

			assert.ErrorIs(t, err, tt.wantErr, tt.name)
			assert.Zero(t, mockRepo.createCalls, tt.name)
		}
	})

	t.Run("pre-check conflict reports the colliding fields", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			existing []entity.User
			want     ExistingUsernameOrEmailError
		}{
			{
				name:     "username taken",
				existing: []entity.User{{ID: 1, Username: "garfield", Email: "other@example.com"}},
				want:     ExistingUsernameOrEmailError{Username: true},
			},
			{
				name:     "email taken",
				existing: []entity.User{{ID: 1, Username: "other", Email: "garfield@example.com"}},
				want:     ExistingUsernameOrEmailError{Email: true},
			},
			{
				name: "both taken by different users",
				existing: []entity.User{
					{ID: 1, Username: "garfield", Email: "a@example.com"},
					{ID: 2, Username: "b", Email: "garfield@example.com"},
				},
				want: ExistingUsernameOrEmailError{Username: true, Email: true},
			},
		}

		for _, tt := range tests {
			mockRepo := &mockUserRepository{
				FindByEmailOrUsernameFunc: func(ctx context.Context, email, username string) ([]entity.User, error) {
					return tt.existing, nil
				},
			}
			uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)

			id, err := uc.Register(context.Background(), "garfield", "garfield@example.com", "password123")

			assert.Zero(t, id, tt.name)
			assert.ErrorIs(t, err, ErrDuplicateUser, tt.name)
			var conflict *ExistingUsernameOrEmailError
			require.True(t, errors.As(err, &conflict), tt.name)
			assert.Equal(t, tt.want, *conflict, tt.name)
			assert.Zero(t, mockRepo.createCalls, "%s: Create must not be called", tt.name)
		}
	})

	t.Run("store duplicate after pre-check is translated", func(t *testing.T) {
		t.Parallel()

		lookups := 0
		mockRepo := &mockUserRepository{
			FindByEmailOrUsernameFunc: func(ctx context.Context, email, username string) ([]entity.User, error) {
				lookups++
				if lookups == 1 {
					return []entity.User{}, nil
				}
				// 並行した登録が先にコミットされた
				return []entity.User{{ID: 9, Username: "racer", Email: email}}, nil
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrDuplicateUser
			},
		}

		uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)
		_, err := uc.Register(context.Background(), "garfield", "garfield@example.com", "password123")

		var conflict *ExistingUsernameOrEmailError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, ExistingUsernameOrEmailError{Email: true}, *conflict)
		assert.Equal(t, 2, lookups)
	})

	t.Run("store duplicate with failing re-check still conflicts", func(t *testing.T) {
		t.Parallel()

		lookups := 0
		mockRepo := &mockUserRepository{
			FindByEmailOrUsernameFunc: func(ctx context.Context, email, username string) ([]entity.User, error) {
				lookups++
				if lookups == 1 {
					return []entity.User{}, nil
				}
				return nil, errors.New("connection reset")
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrDuplicateUser
			},
		}

		uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)
		_, err := uc.Register(context.Background(), "garfield", "garfield@example.com", "password123")

		assert.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("lookup failure is propagated", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("database error")
		mockRepo := &mockUserRepository{
			FindByEmailOrUsernameFunc: func(ctx context.Context, email, username string) ([]entity.User, error) {
				return nil, expectedErr
			},
		}

		uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)
		_, err := uc.Register(context.Background(), "garfield", "garfield@example.com", "password123")

		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("repository create failure", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("database error")
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return expectedErr
			},
		}

		uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)
		_, err := uc.Register(context.Background(), "garfield", "garfield@example.com", "password123")

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error '%v', got: %v", expectedErr, err)
		}
	})
}

func TestAccountUsecase_VerifyLogin(t *testing.T) {
	t.Parallel()

	// Hashed password for testing
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &entity.User{
		ID:       1,
		Username: "garfield",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}
	findTestUser := func(ctx context.Context, email string) (*entity.User, error) {
		if email == testUser.Email {
			return testUser, nil
		}
		return nil, ErrUserNotFound
	}

	t.Run("successful login returns a profile", func(t *testing.T) {
		t.Parallel()

		uc := NewAccountUsecase(&mockUserRepository{FindByEmailFunc: findTestUser}, bcrypt.MinCost)
		profile, ok, err := uc.VerifyLogin(context.Background(), "test@example.com", password)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, entity.Profile{ID: 1, Username: "garfield", Email: "test@example.com"}, profile)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		uc := NewAccountUsecase(&mockUserRepository{FindByEmailFunc: findTestUser}, bcrypt.MinCost)

		p1, ok1, err1 := uc.VerifyLogin(context.Background(), "wrong@example.com", password)
		p2, ok2, err2 := uc.VerifyLogin(context.Background(), "test@example.com", "wrong-password")

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.False(t, ok1)
		assert.False(t, ok2)
		assert.Equal(t, p1, p2)
		assert.Zero(t, p1)
	})

	t.Run("store failure is an error", func(t *testing.T) {
		t.Parallel()

		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, errors.New("connection refused")
			},
		}

		uc := NewAccountUsecase(mockRepo, bcrypt.MinCost)
		_, ok, err := uc.VerifyLogin(context.Background(), "test@example.com", password)

		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestAccountUsecase_GetProfile(t *testing.T) {
	t.Parallel()

	mockRepo := &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
			switch id {
			case 1:
				return &entity.User{ID: 1, Username: "odie", Email: "odiee@example.com", Password: "hash"}, nil
			case 2:
				return nil, errors.New("timeout")
			}
			return nil, ErrUserNotFound
		},
	}
	uc := NewAccountUsecase(mockRepo, 0)

	profile, ok, err := uc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "odie", profile.Username)

	_, ok, err = uc.GetProfile(context.Background(), 99)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = uc.GetProfile(context.Background(), 2)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewAccountUsecase_DefaultCost(t *testing.T) {
	t.Parallel()

	uc := NewAccountUsecase(&mockUserRepository{}, 0)

	assert.Equal(t, bcrypt.DefaultCost, uc.cost)
}

func TestExistingUsernameOrEmailError_Message(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "username and email already exist", (&ExistingUsernameOrEmailError{Username: true, Email: true}).Error())
	assert.Equal(t, "username already exists", (&ExistingUsernameOrEmailError{Username: true}).Error())
	assert.Equal(t, "email already exists", (&ExistingUsernameOrEmailError{Email: true}).Error())
	assert.Equal(t, "username or email already exists", (&ExistingUsernameOrEmailError{}).Error())
}
