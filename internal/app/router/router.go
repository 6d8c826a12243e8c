// Package router はHTTPルーティングを組み立てます。
package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"food_logger/internal/app/di"
	"food_logger/internal/platform/middleware"
	"food_logger/internal/platform/session"
	"food_logger/internal/shared/ratelimiter"
)

// NewRouter はルートとミドルウェアを登録したgin.Engineを返します。
// loginLimiterがnilの場合、ログイン試行回数は制限されません。
// trustedProxiesが空の場合、X-Forwarded-Forは無視され接続元IPがクライアントIPになります。
func NewRouter(h *di.Handlers, sessions *session.Manager, loginLimiter ratelimiter.Limiter, trustedProxies []string, logger *slog.Logger) (*gin.Engine, error) {
	r := gin.New()
	if len(trustedProxies) == 0 {
		trustedProxies = nil
	}
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	// 新規ユーザー登録
	r.GET("/register", h.Auth.Page)
	r.POST("/register", h.Auth.Register)
	// ログイン（セッションCookie発行）
	r.GET("/login", h.Auth.Page)
	r.POST("/login", ratelimiter.Middleware(loginLimiter), h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)

	// 認証必須のルート
	// セッションがなければ /login?redirectTo=<path> へリダイレクト
	home := r.Group("/home")
	home.Use(sessions.RequireUser())
	{
		home.GET("", h.Auth.Home)

		home.GET("/recipes", h.Recipes.List)
		home.POST("/recipes/add", h.Recipes.Add)
		home.GET("/recipes/:recipeId", h.Recipes.Detail)

		home.GET("/meals", h.Meals.List)
		home.POST("/meals", h.Meals.Log)
	}

	return r, nil
}
