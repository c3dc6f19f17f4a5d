package controllers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/middleware"
	"github.com/pumaprintables/portal/models"
	"github.com/pumaprintables/portal/pkg/optimistic"
	"github.com/pumaprintables/portal/session"
)

// AdminController drives the user-management console. It keeps a cached copy
// of the directory so role changes can be applied optimistically and rolled
// back when the platform rejects them.
type AdminController struct {
	platform *clients.Platform
	sessions *session.Manager
	log      *zap.Logger

	mu        sync.Mutex
	directory map[string]models.ManagedUser
}

func NewAdminController(platform *clients.Platform, sessions *session.Manager, log *zap.Logger) *AdminController {
	return &AdminController{
		platform:  platform,
		sessions:  sessions,
		log:       log,
		directory: make(map[string]models.ManagedUser),
	}
}

func (a *AdminController) requireAdmin(c *gin.Context) (session.Session, bool) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return session.Session{}, false
	}
	if sess.User.Role != models.RoleAdmin {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return session.Session{}, false
	}
	return sess, true
}

// ListUsers returns the directory and refreshes the cached copy.
func (a *AdminController) ListUsers(c *gin.Context) {
	sess, ok := a.requireAdmin(c)
	if !ok {
		return
	}

	users, err := a.platform.GetManagedUsers(c.Request.Context(), sess.Token)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	a.mu.Lock()
	a.directory = make(map[string]models.ManagedUser, len(users))
	for _, u := range users {
		a.directory[u.ID] = u
	}
	a.mu.Unlock()

	c.JSON(http.StatusOK, users)
}

// UpdateRole changes a user's role. The cached entry is updated before the
// platform call and restored when the call fails, so a rejected change never
// sticks.
func (a *AdminController) UpdateRole(c *gin.Context) {
	sess, ok := a.requireAdmin(c)
	if !ok {
		return
	}
	userID := c.Param("id")

	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ErrInvalidBody)
		return
	}
	if !models.ValidUserRole(string(req.Role)) {
		apperrors.Respond(c, apperrors.Validation("Unknown role"))
		return
	}

	current, ok := a.cachedUser(userID)
	if !ok {
		// Cache cold (fresh process or direct API call): load the directory.
		users, err := a.platform.GetManagedUsers(c.Request.Context(), sess.Token)
		if err != nil {
			apperrors.Respond(c, apperrors.Upstream(err))
			return
		}
		a.mu.Lock()
		a.directory = make(map[string]models.ManagedUser, len(users))
		for _, u := range users {
			a.directory[u.ID] = u
		}
		a.mu.Unlock()

		current, ok = a.cachedUser(userID)
		if !ok {
			apperrors.Respond(c, apperrors.New(http.StatusNotFound, "User not found", nil))
			return
		}
	}

	if current.Role == req.Role {
		c.JSON(http.StatusOK, current)
		return
	}

	tentative := current
	tentative.Role = req.Role

	err := optimistic.Update(
		func() models.ManagedUser { u, _ := a.cachedUser(userID); return u },
		func(u models.ManagedUser) { a.storeUser(u) },
		tentative,
		func() (models.ManagedUser, error) {
			return a.platform.UpdateUserRole(c.Request.Context(), sess.Token, userID, req)
		},
	)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	updated, _ := a.cachedUser(userID)

	// A self-demotion or promotion must land in the session promptly.
	if updated.Username == sess.User.Username {
		if err := a.sessions.Refresh(c.Request.Context(), sess.ID); err != nil {
			a.log.Warn("self role change: session refresh failed", zap.String("sid", sess.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, updated)
}

// Metrics returns signup/activity counts for the lookback window.
func (a *AdminController) Metrics(c *gin.Context) {
	sess, ok := a.requireAdmin(c)
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apperrors.Respond(c, apperrors.Validation("Days must be a positive number"))
			return
		}
		days = parsed
	}

	metrics, err := a.platform.GetUserMetrics(c.Request.Context(), sess.Token, days)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ExportOnboarding streams the onboarding spreadsheet through unchanged.
func (a *AdminController) ExportOnboarding(c *gin.Context) {
	sess, ok := a.requireAdmin(c)
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apperrors.Respond(c, apperrors.Validation("Days must be a positive number"))
			return
		}
		days = parsed
	}

	resp, err := a.platform.DownloadOnboardingReport(c.Request.Context(), sess.Token, days)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}

	extraHeaders := map[string]string{}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		extraHeaders["Content-Disposition"] = cd
	} else {
		extraHeaders["Content-Disposition"] = "attachment; filename=onboarding-last-" + strconv.Itoa(days) + "-days.xlsx"
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, extraHeaders)
	resp.Body.Close()
}

func (a *AdminController) cachedUser(userID string) (models.ManagedUser, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.directory[userID]
	return u, ok
}

func (a *AdminController) storeUser(u models.ManagedUser) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.directory[u.ID] = u
}
