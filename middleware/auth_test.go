package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"role": "ADMIN",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func guardedRouter(t *testing.T) (*gin.Engine, session.Session) {
	t.Helper()
	manager := session.NewManager(session.NewMemoryStore(), nil, zap.NewNop())
	sess, err := manager.Login(httptest.NewRequest(http.MethodGet, "/", nil).Context(), signedToken(t))
	assert.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RequireSession(manager, "pp_session"))
	r.GET("/whoami", func(c *gin.Context) {
		got, err := middleware.GetSession(c)
		assert.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"username": got.User.Username})
	})
	return r, sess
}

func TestRequireSession_HeaderWins(t *testing.T) {
	r, sess := guardedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.SessionHeader, sess.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireSession_CookieFallback(t *testing.T) {
	r, sess := guardedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "pp_session", Value: sess.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSession_MissingAndUnknown(t *testing.T) {
	r, _ := guardedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.SessionHeader, "bogus")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetSession_OutsideMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetSession(c)
	assert.Error(t, err)
}

func TestLoginRateLimit_EventuallyThrottles(t *testing.T) {
	r := gin.New()
	r.Use(middleware.LoginRateLimit())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	var limited bool
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}
