package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupProtectedRouter(m *Manager) *gin.Engine {
	r := gin.New()
	home := r.Group("/home")
	home.Use(m.RequireUser())
	home.GET("/recipes", func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id})
	})
	return r
}

func TestRequireUser_NoCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	router := setupProtectedRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home/recipes?sort=name", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirectTo=%2Fhome%2Frecipes%3Fsort%3Dname", w.Header().Get("Location"))
}

func TestRequireUser_InvalidCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	router := setupProtectedRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home/recipes", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "forged"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirectTo=%2Fhome%2Frecipes", w.Header().Get("Location"))
}

func TestRequireUser_ValidCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	router := setupProtectedRouter(m)
	token, err := m.Issue(12)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home/recipes", nil)
	req.AddCookie(m.Cookie(token))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":12}`, w.Body.String())
}

func TestManager_SetAndClearCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetCookie(c, "abc")
	m.ClearCookie(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.Empty(t, cookies[1].Value)
	assert.Less(t, cookies[1].MaxAge, 0)
}

func TestManager_CurrentUserID(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	token, err := m.Issue(5)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/login", nil)
	_, ok := m.CurrentUserID(c)
	assert.False(t, ok)

	c.Request.AddCookie(m.Cookie(token))
	id, ok := m.CurrentUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(5), id)
}
