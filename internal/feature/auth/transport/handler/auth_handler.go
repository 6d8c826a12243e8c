// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"food_logger/internal/feature/auth/domain/entity"
	"food_logger/internal/feature/auth/transport/http/dto"
	"food_logger/internal/feature/auth/usecase"
	"food_logger/internal/platform/session"
)

const (
	homePath = "/home"

	msgEmailInvalid     = "Email is not in a valid format"
	msgEmailInUse       = "Email already in use"
	msgUsernameInUse    = "Username already in use"
	msgEitherInUse      = "Email or username already in use"
	msgUsernameRequired = "Username is required"
	msgUsernameTooLong  = "Username is too long"
	msgPasswordRequired = "Password is required"
	msgPasswordTooShort = "Password is too short"
	msgInvalidLogin     = "Invalid email or password"
	msgUnknown          = "Could not process request"
)

// AccountUsecase はアカウント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AccountUsecase interface {
	// Register は新規ユーザーを登録し、そのIDを返します。
	Register(ctx context.Context, username, email, password string) (uint, error)
	// VerifyLogin は認証情報を検証し、成功時にプロフィールを返します。
	VerifyLogin(ctx context.Context, email, password string) (entity.Profile, bool, error)
	// GetProfile はIDでプロフィールを取得します。
	GetProfile(ctx context.Context, id uint) (entity.Profile, bool, error)
}

// SessionManager はセッションCookieの読み書きを定義します。
type SessionManager interface {
	Issue(userID uint) (string, error)
	SetCookie(c *gin.Context, token string)
	ClearCookie(c *gin.Context)
	CurrentUserID(c *gin.Context) (uint, bool)
}

// AuthHandler は登録・ログイン・ログアウトのHTTPリクエストを処理します。
type AuthHandler struct {
	accounts AccountUsecase
	sessions SessionManager
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(accounts AccountUsecase, sessions SessionManager) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

func strPtr(s string) *string { return &s }

// Page は GET /register と GET /login を処理します。
// ログイン済みであれば /home へリダイレクトします。
func (h *AuthHandler) Page(c *gin.Context) {
	if _, ok := h.sessions.CurrentUserID(c); ok {
		c.Redirect(http.StatusFound, homePath)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Register はユーザー登録フォームを処理します。
// - ログイン済みなら /home へリダイレクト
// - バリデーションエラー・重複時は400を返却
// - 成功時はセッションCookieを設定して /home へ303リダイレクト
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := h.sessions.CurrentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, homePath)
		return
	}

	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorsRes{Errors: bindingErrors(err)})
		return
	}

	userID, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		slog.Warn("register failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		status, fields := registerErrors(err)
		c.JSON(status, dto.ErrorsRes{Errors: fields})
		return
	}

	if !h.startSession(c, userID) {
		return
	}
	slog.Info("user registration successful", "user_id", userID, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusSeeOther, homePath)
}

// Login はログインフォームを処理します。
// 認証失敗の理由（メール未登録かパスワード不一致か）は公開しません。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorsRes{Errors: bindingErrors(err)})
		return
	}

	profile, ok, err := h.accounts.VerifyLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorsRes{Errors: dto.FieldErrors{Unknown: strPtr(msgUnknown)}})
		return
	}
	if !ok {
		slog.Warn("login rejected", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorsRes{Errors: dto.FieldErrors{Unknown: strPtr(msgInvalidLogin)}})
		return
	}

	if !h.startSession(c, profile.ID) {
		return
	}
	slog.Info("user login successful", "user_id", profile.ID, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusSeeOther, SafeRedirect(req.RedirectTo))
}

// Logout はセッションCookieを破棄してトップへリダイレクトします。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// Home は認証済みユーザーのプロフィールを返します。
// セッションのユーザーが既に存在しない場合はログアウトさせます。
func (h *AuthHandler) Home(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, session.LoginRedirect(c.Request.URL.RequestURI()))
		return
	}
	profile, found, err := h.accounts.GetProfile(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !found {
		slog.Warn("session refers to missing user", "user_id", userID, "remote_addr", c.ClientIP())
		h.sessions.ClearCookie(c)
		c.Redirect(http.StatusFound, session.LoginPath)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileRes{User: profile})
}

// startSession はトークンを発行してCookieに設定します。失敗時はレスポンスを書き込みfalseを返します。
func (h *AuthHandler) startSession(c *gin.Context, userID uint) bool {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, dto.ErrorsRes{Errors: dto.FieldErrors{Unknown: strPtr(msgUnknown)}})
		return false
	}
	h.sessions.SetCookie(c, token)
	return true
}

// SafeRedirect はアプリ内のパスのみを許可し、それ以外は /home を返します。
// ブラウザはURL中のタブや改行を取り除くため、制御文字を含む値も拒否します。
func SafeRedirect(to string) string {
	if strings.IndexFunc(to, isControl) >= 0 {
		return homePath
	}
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return homePath
	}
	u, err := url.Parse(to)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return homePath
	}
	return to
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// bindingErrors はバインドエラーをフィールドごとのメッセージに変換します。
func bindingErrors(err error) dto.FieldErrors {
	var fields dto.FieldErrors
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Unknown = strPtr(msgUnknown)
		return fields
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Username":
			if fe.Tag() == "max" {
				fields.Username = strPtr(msgUsernameTooLong)
			} else {
				fields.Username = strPtr(msgUsernameRequired)
			}
		case "Email":
			fields.Email = strPtr(msgEmailInvalid)
		case "Password":
			if fe.Tag() == "min" {
				fields.Password = strPtr(msgPasswordTooShort)
			} else {
				fields.Password = strPtr(msgPasswordRequired)
			}
		default:
			fields.Unknown = strPtr(msgUnknown)
		}
	}
	return fields
}

// registerErrors はユースケースのエラーをステータスコードとフィールドエラーに変換します。
func registerErrors(err error) (int, dto.FieldErrors) {
	var conflict *usecase.ExistingUsernameOrEmailError
	switch {
	case errors.As(err, &conflict):
		fields := dto.FieldErrors{}
		if conflict.Username {
			fields.Username = strPtr(msgUsernameInUse)
		}
		if conflict.Email {
			fields.Email = strPtr(msgEmailInUse)
		}
		if !conflict.Username && !conflict.Email {
			fields.Email = strPtr(msgEitherInUse)
		}
		return http.StatusBadRequest, fields
	case errors.Is(err, usecase.ErrDuplicateUser):
		return http.StatusBadRequest, dto.FieldErrors{Email: strPtr(msgEitherInUse)}
	case errors.Is(err, usecase.ErrPasswordTooShort):
		return http.StatusBadRequest, dto.FieldErrors{Password: strPtr(msgPasswordTooShort)}
	case errors.Is(err, usecase.ErrUsernameRequired):
		return http.StatusBadRequest, dto.FieldErrors{Username: strPtr(msgUsernameRequired)}
	case errors.Is(err, usecase.ErrInvalidEmail):
		return http.StatusBadRequest, dto.FieldErrors{Email: strPtr(msgEmailInvalid)}
	}
	return http.StatusInternalServerError, dto.FieldErrors{Unknown: strPtr(msgUnknown)}
}
