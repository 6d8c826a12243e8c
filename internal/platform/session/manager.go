// Package session はCookieに格納する署名済みセッショントークンを管理します。
// サーバー側に状態は持たず、トークン自体がユーザーIDを運びます。
package session

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultCookieName = "userSession"
	DefaultMaxAge     = 7 * 24 * time.Hour

	// LoginPath は未認証時のリダイレクト先です。
	LoginPath = "/login"
)

// ErrMissingSecret は署名用シークレットが設定されていない場合に返されます。
var ErrMissingSecret = errors.New("session secret is required")

// ErrUnauthenticated はリクエストに有効なセッションがないことを表します。
var ErrUnauthenticated = errors.New("unauthenticated")

// UnauthenticatedError は未認証時のリダイレクト先を保持します。
type UnauthenticatedError struct {
	RedirectTo string
}

func (e *UnauthenticatedError) Error() string {
	return "unauthenticated: redirect to " + e.RedirectTo
}

func (e *UnauthenticatedError) Unwrap() error { return ErrUnauthenticated }

// Config はセッションCookieの設定です。起動時に構築して注入します。
type Config struct {
	Secret     string        `yaml:"-"`
	CookieName string        `yaml:"cookie_name"`
	MaxAge     time.Duration `yaml:"max_age"`
	Secure     bool          `yaml:"secure"`
}

// DefaultConfig はSecret以外のデフォルト値を返します。
func DefaultConfig() Config {
	return Config{
		CookieName: DefaultCookieName,
		MaxAge:     DefaultMaxAge,
	}
}

// Option はManagerの生成オプションです。
type Option func(*Manager)

// WithClock は現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.signer.now = now }
}

// Manager はセッショントークンの発行・読み取り・破棄を行います。
type Manager struct {
	cfg    Config
	signer *signer
}

// NewManager はManagerを生成します。Secretが空の場合はエラーを返します。
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	m := &Manager{
		cfg: cfg,
		signer: &signer{
			secret: []byte(cfg.Secret),
			ttl:    cfg.MaxAge,
			now:    time.Now,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CookieName はセッションCookieの名前を返します。
func (m *Manager) CookieName() string { return m.cfg.CookieName }

// Issue はユーザーIDを含む署名済みトークンを発行します。
func (m *Manager) Issue(userID uint) (string, error) {
	return m.signer.sign(userID)
}

// Read はトークンからユーザーIDを取り出します。
// 空・改ざん・期限切れのトークンはエラーではなく ok=false として扱います。
func (m *Manager) Read(token string) (uint, bool) {
	if token == "" {
		return 0, false
	}
	id, err := m.signer.parse(token)
	if err != nil {
		return 0, false
	}
	return id, true
}

// RequireUserID はユーザーIDを返し、セッションがなければログインへのリダイレクト先を持つエラーを返します。
func (m *Manager) RequireUserID(token, currentPath string) (uint, error) {
	if id, ok := m.Read(token); ok {
		return id, nil
	}
	return 0, &UnauthenticatedError{RedirectTo: LoginRedirect(currentPath)}
}

// LoginRedirect は元のパスをredirectToに載せたログインURLを返します。
func LoginRedirect(currentPath string) string {
	return LoginPath + "?" + url.Values{"redirectTo": {currentPath}}.Encode()
}

// Cookie はトークンを格納するCookieを返します。
func (m *Manager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.MaxAge / time.Second),
		Expires:  m.signer.now().Add(m.cfg.MaxAge),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Destroy は値が空で即時失効するCookieを返します。
func (m *Manager) Destroy() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
