package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/models"
	"github.com/pumaprintables/portal/session"
)

// AuthController handles login, registration and session endpoints.
type AuthController struct {
	platform     *clients.Platform
	sessions     *session.Manager
	log          *zap.Logger
	cookieName   string
	cookieSecure bool
}

func NewAuthController(platform *clients.Platform, sessions *session.Manager, log *zap.Logger, cookieName string, cookieSecure bool) *AuthController {
	return &AuthController{
		platform:     platform,
		sessions:     sessions,
		log:          log,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

type sessionResponse struct {
	SessionID string          `json:"sessionId"`
	User      models.AuthUser `json:"user"`
	ExpiresAt int64           `json:"expiresAt,omitempty"`
}

// Login exchanges credentials for a platform token and opens a session.
func (a *AuthController) Login(c *gin.Context) {
	var req clients.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		apperrors.Respond(c, apperrors.Validation("Username and password are required"))
		return
	}

	auth, err := a.platform.Login(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	a.openSession(c, auth.Token)
}

// LoginGoogle opens a session from a Google-issued credential.
func (a *AuthController) LoginGoogle(c *gin.Context) {
	var req clients.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if req.Credential == "" {
		apperrors.Respond(c, apperrors.Validation("Google sign-in did not provide a credential"))
		return
	}

	auth, err := a.platform.LoginGoogle(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	a.openSession(c, auth.Token)
}

type registerPayload struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
	Role            string `json:"role"`
}

// Register validates the signup form, creates the account and signs the new
// user straight in.
func (a *AuthController) Register(c *gin.Context) {
	var req registerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		apperrors.Respond(c, apperrors.Validation("Username is required"))
		return
	}
	if len(req.Password) < 8 {
		apperrors.Respond(c, apperrors.Validation("Password must be at least 8 characters"))
		return
	}
	if req.Password != req.ConfirmPassword {
		apperrors.Respond(c, apperrors.Validation("Passwords do not match"))
		return
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		apperrors.Respond(c, apperrors.Validation("Email must be valid"))
		return
	}
	if req.Role == "" {
		req.Role = string(models.RoleStoreUser)
	}
	if !models.ValidUserRole(req.Role) {
		apperrors.Respond(c, apperrors.Validation("Unknown role"))
		return
	}

	ctx := c.Request.Context()
	_, err := a.platform.Register(ctx, models.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	auth, err := a.platform.Login(ctx, clients.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	a.openSession(c, auth.Token)
}

// Logout ends the session and drops the cookie.
func (a *AuthController) Logout(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err == nil {
		a.sessions.Logout(c.Request.Context(), sess.ID)
	}
	c.SetCookie(a.cookieName, "", -1, "/", "", a.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

// Session returns the signed-in user for the current session.
func (a *AuthController) Session(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

// RefreshSession re-fetches the authoritative profile immediately. The portal
// UI calls this when it regains focus so server-side role changes land fast.
func (a *AuthController) RefreshSession(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	if err := a.sessions.Refresh(c.Request.Context(), sess.ID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	refreshed, err := a.sessions.RequireSession(c.Request.Context(), sess.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(refreshed))
}

func (a *AuthController) openSession(c *gin.Context, token string) {
	sess, err := a.sessions.Login(c.Request.Context(), token)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	maxAge := int(session.DefaultSessionTTL / time.Second)
	if !sess.ExpiresAt.IsZero() {
		maxAge = int(time.Until(sess.ExpiresAt) / time.Second)
	}
	c.SetCookie(a.cookieName, sess.ID, maxAge, "/", "", a.cookieSecure, true)
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func toSessionResponse(sess session.Session) sessionResponse {
	resp := sessionResponse{SessionID: sess.ID, User: sess.User}
	if !sess.ExpiresAt.IsZero() {
		resp.ExpiresAt = sess.ExpiresAt.UnixMilli()
	}
	return resp
}
