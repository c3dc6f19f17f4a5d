package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/models"
	"github.com/pumaprintables/portal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withSession seeds the context the way the auth middleware would for a
// signed-in user.
func withSession(r *gin.Engine, sess session.Session) {
	r.Use(func(c *gin.Context) {
		c.Set("portal_session", sess)
		c.Next()
	})
}

func testSession(role models.UserRole) session.Session {
	return session.Session{
		ID:    "sid-test",
		Token: "tok-test",
		User: models.AuthUser{
			Username: "tester",
			Role:     role,
		},
	}
}

func testPlatform(handler http.Handler) (*clients.Platform, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return clients.NewPlatform(srv.URL, 5*time.Second), srv
}

func doJSON(r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp["message"]
}
