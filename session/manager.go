package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/models"
)

// Session is a live signed-in portal session.
type Session struct {
	ID        string
	Token     string
	User      models.AuthUser
	ExpiresAt time.Time // zero when the token never expires
}

// Expired reports whether the session's token has lapsed.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(time.Now())
}

// ProfileAPI is the slice of the platform client the manager needs to
// re-fetch the authoritative user profile.
type ProfileAPI interface {
	GetSession(ctx context.Context, token string) (models.CurrentUser, error)
}

type entry struct {
	session Session
	timer   *time.Timer
	expired bool
}

// Manager owns the session lifecycle: decode on login, persistence on every
// change, expiry-driven logout and background profile refresh. All state
// transitions run under the lock and complete before the next one starts.
type Manager struct {
	store Store
	api   ProfileAPI
	log   *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	onEnded func(sid string)
}

func NewManager(store Store, api ProfileAPI, log *zap.Logger) *Manager {
	return &Manager{
		store:   store,
		api:     api,
		log:     log,
		entries: make(map[string]*entry),
	}
}

// OnSessionEnded registers a hook fired whenever a session's token becomes
// void (logout, expiry, refresh rejection). The cart manager hangs off this
// so a cart never outlives its owning session.
func (m *Manager) OnSessionEnded(fn func(sid string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnded = fn
}

// Login decodes the token and installs a new session. A token lacking a
// subject or role, or already expired, fails with the invalid-token error and
// leaves no session behind.
func (m *Manager) Login(ctx context.Context, token string) (Session, error) {
	identity, err := DecodeToken(token)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      identity.User,
		ExpiresAt: identity.ExpiresAt,
	}

	m.mu.Lock()
	m.install(sess)
	m.mu.Unlock()

	if err := m.persist(ctx, sess); err != nil {
		m.log.Warn("failed to persist session", zap.String("sid", sess.ID), zap.Error(err))
	}
	return sess, nil
}

// Logout clears the session and removes persisted storage.
func (m *Manager) Logout(ctx context.Context, sid string) {
	m.mu.Lock()
	if e, ok := m.entries[sid]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(m.entries, sid)
	}
	ended := m.onEnded
	m.mu.Unlock()

	if err := m.store.Delete(ctx, sid); err != nil {
		m.log.Warn("failed to delete persisted session", zap.String("sid", sid), zap.Error(err))
	}
	if ended != nil {
		ended(sid)
	}
}

// RequireSession returns the live session for sid, restoring it from the
// store after a restart. Missing or unrecoverable sessions yield the
// not-authenticated error; a session whose expiry timer has fired yields the
// session-expired error, with state already cleared.
func (m *Manager) RequireSession(ctx context.Context, sid string) (Session, error) {
	if sid == "" {
		return Session{}, apperrors.ErrNotAuthenticated
	}

	m.mu.Lock()
	if e, ok := m.entries[sid]; ok {
		if e.expired || e.session.Expired() {
			if e.timer != nil {
				e.timer.Stop()
			}
			delete(m.entries, sid)
			ended := m.onEnded
			m.mu.Unlock()
			_ = m.store.Delete(ctx, sid)
			if ended != nil {
				ended(sid)
			}
			return Session{}, apperrors.ErrSessionExpired
		}
		sess := e.session
		m.mu.Unlock()
		return sess, nil
	}
	m.mu.Unlock()

	return m.restore(ctx, sid)
}

// restore rehydrates a session from the store. Decode failures never
// propagate: a corrupt or lapsed record is wiped and reported as no session.
func (m *Manager) restore(ctx context.Context, sid string) (Session, error) {
	rec, err := m.store.Load(ctx, sid)
	if err != nil {
		m.log.Warn("session store load failed", zap.String("sid", sid), zap.Error(err))
		return Session{}, apperrors.ErrNotAuthenticated
	}
	if rec == nil || rec.Token == "" {
		return Session{}, apperrors.ErrNotAuthenticated
	}

	identity, err := DecodeToken(rec.Token)
	if err != nil {
		_ = m.store.Delete(ctx, sid)
		return Session{}, apperrors.ErrNotAuthenticated
	}

	sess := Session{
		ID:        sid,
		Token:     rec.Token,
		User:      identity.User,
		ExpiresAt: identity.ExpiresAt,
	}
	// The record may hold profile fields fresher than the token claims.
	sess.User = mergeUser(sess.User, rec.User)

	m.mu.Lock()
	m.install(sess)
	m.mu.Unlock()
	return sess, nil
}

// Refresh re-fetches the authoritative profile and merges it into the
// session. A 401-class rejection forces logout; network and cancellation
// failures leave the session untouched.
func (m *Manager) Refresh(ctx context.Context, sid string) error {
	sess, err := m.RequireSession(ctx, sid)
	if err != nil {
		return err
	}

	profile, err := m.api.GetSession(ctx, sess.Token)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			m.log.Info("session rejected by platform, logging out", zap.String("sid", sid))
			m.Logout(ctx, sid)
			return apperrors.ErrSessionExpired
		}
		if !apperrors.IsCanceled(err) {
			m.log.Warn("session refresh failed", zap.String("sid", sid), zap.Error(err))
		}
		return err
	}

	m.mu.Lock()
	e, ok := m.entries[sid]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	e.session.User = applyProfile(e.session.User, profile)
	updated := e.session
	m.mu.Unlock()

	if err := m.persist(ctx, updated); err != nil {
		m.log.Warn("failed to persist refreshed session", zap.String("sid", sid), zap.Error(err))
	}
	return nil
}

// RefreshAll runs Refresh over every active session, best-effort. Wired to a
// scheduler task so server-side role changes land without a re-login.
func (m *Manager) RefreshAll(ctx context.Context) error {
	m.mu.Lock()
	sids := make([]string, 0, len(m.entries))
	for sid := range m.entries {
		sids = append(sids, sid)
	}
	m.mu.Unlock()

	for _, sid := range sids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = m.Refresh(ctx, sid)
	}
	return nil
}

// install replaces any existing entry for the session and schedules the
// expiry timer. Caller holds the lock.
func (m *Manager) install(sess Session) {
	if e, ok := m.entries[sess.ID]; ok && e.timer != nil {
		e.timer.Stop()
	}

	e := &entry{session: sess}
	if !sess.ExpiresAt.IsZero() {
		e.timer = time.AfterFunc(time.Until(sess.ExpiresAt), func() {
			m.expire(sess.ID)
		})
	}
	m.entries[sess.ID] = e
}

// expire is the timer callback: the session's token just lapsed. Persisted
// state goes away immediately; the in-memory entry is tombstoned so the next
// RequireSession reports expiry rather than plain missing.
func (m *Manager) expire(sid string) {
	m.mu.Lock()
	e, ok := m.entries[sid]
	if !ok {
		m.mu.Unlock()
		return
	}
	e.expired = true
	ended := m.onEnded
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Delete(ctx, sid); err != nil {
		m.log.Warn("failed to delete expired session", zap.String("sid", sid), zap.Error(err))
	}
	if ended != nil {
		ended(sid)
	}
}

func (m *Manager) persist(ctx context.Context, sess Session) error {
	rec := &Record{Token: sess.Token, User: sess.User}
	if !sess.ExpiresAt.IsZero() {
		rec.ExpiresAt = sess.ExpiresAt.UnixMilli()
	}
	return m.store.Save(ctx, sess.ID, rec)
}

// applyProfile merges server-provided fields into the session user,
// preserving locally cached display fields the response omits.
func applyProfile(user models.AuthUser, profile models.CurrentUser) models.AuthUser {
	if profile.Role != "" {
		user.Role = profile.Role
	}
	if profile.FullName != "" {
		user.DisplayName = profile.FullName
	}
	if profile.Email != "" {
		user.Email = profile.Email
	}
	if profile.AvatarURL != "" {
		user.AvatarURL = profile.AvatarURL
	}
	if profile.AuthProvider != "" {
		user.Provider = profile.AuthProvider
	}
	return user
}

// mergeUser overlays non-empty persisted fields onto the token-derived user.
func mergeUser(base, stored models.AuthUser) models.AuthUser {
	if stored.DisplayName != "" {
		base.DisplayName = stored.DisplayName
	}
	if stored.Email != "" {
		base.Email = stored.Email
	}
	if stored.AvatarURL != "" {
		base.AvatarURL = stored.AvatarURL
	}
	if stored.Provider != "" {
		base.Provider = stored.Provider
	}
	if stored.Role != "" {
		base.Role = stored.Role
	}
	return base
}
