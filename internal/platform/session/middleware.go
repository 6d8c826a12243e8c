package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserID は認証済みユーザーIDを格納するgin.Contextのキーです。
const ContextUserID = "userID"

// RequireUser は有効なセッションCookieを要求するミドルウェアを返します。
// セッションがなければ /login?redirectTo=<現在のパス> へ302でリダイレクトします。
func (m *Manager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(m.cfg.CookieName)
		id, err := m.RequireUserID(token, c.Request.URL.RequestURI())
		if err != nil {
			var ue *UnauthenticatedError
			if errors.As(err, &ue) {
				c.Redirect(http.StatusFound, ue.RedirectTo)
				c.Abort()
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(ContextUserID, id)
		c.Next()
	}
}

// CurrentUserID はリクエストのCookieからユーザーIDを読み取ります。ミドルウェア外のルートで使用します。
func (m *Manager) CurrentUserID(c *gin.Context) (uint, bool) {
	token, err := c.Cookie(m.cfg.CookieName)
	if err != nil {
		return 0, false
	}
	return m.Read(token)
}

// SetCookie は新しいトークンをレスポンスのCookieに設定します。
func (m *Manager) SetCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, m.Cookie(token))
}

// ClearCookie はセッションCookieを失効させます。
func (m *Manager) ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, m.Destroy())
}

// UserID はRequireUserが設定したユーザーIDを取り出します。
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
