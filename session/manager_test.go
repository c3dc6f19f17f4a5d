package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/models"
	"github.com/pumaprintables/portal/session"
)

type mockProfileAPI struct {
	getSessionFn func(ctx context.Context, token string) (models.CurrentUser, error)
}

func (m *mockProfileAPI) GetSession(ctx context.Context, token string) (models.CurrentUser, error) {
	if m.getSessionFn == nil {
		return models.CurrentUser{}, nil
	}
	return m.getSessionFn(ctx, token)
}

func newManager(api session.ProfileAPI) (*session.Manager, session.Store) {
	store := session.NewMemoryStore()
	return session.NewManager(store, api, zap.NewNop()), store
}

func userToken(t *testing.T, username, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": username, "role": role}
	if ttl != 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return signToken(t, claims)
}

func TestLogin_InstallsAndPersists(t *testing.T) {
	m, store := newManager(&mockProfileAPI{})
	ctx := context.Background()

	sess, err := m.Login(ctx, userToken(t, "alice", "ADMIN", time.Hour))
	assert.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.User.Username)
	assert.Equal(t, models.RoleAdmin, sess.User.Role)

	got, err := m.RequireSession(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)

	rec, err := store.Load(ctx, sess.ID)
	assert.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, sess.Token, rec.Token)
}

func TestLogin_RejectsBadToken(t *testing.T) {
	m, _ := newManager(&mockProfileAPI{})

	_, err := m.Login(context.Background(), "garbage")
	assert.Error(t, err)

	_, err = m.Login(context.Background(), userToken(t, "alice", "ADMIN", -time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRequireSession_EmptyAndUnknownID(t *testing.T) {
	m, _ := newManager(&mockProfileAPI{})
	ctx := context.Background()

	_, err := m.RequireSession(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = m.RequireSession(ctx, "no-such-session")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestLogout_ClearsEverythingAndFiresHook(t *testing.T) {
	m, store := newManager(&mockProfileAPI{})
	ctx := context.Background()

	var mu sync.Mutex
	var ended []string
	m.OnSessionEnded(func(sid string) {
		mu.Lock()
		ended = append(ended, sid)
		mu.Unlock()
	})

	sess, err := m.Login(ctx, userToken(t, "alice", "ADMIN", time.Hour))
	assert.NoError(t, err)

	m.Logout(ctx, sess.ID)

	_, err = m.RequireSession(ctx, sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	rec, err := store.Load(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Nil(t, rec)

	mu.Lock()
	assert.Equal(t, []string{sess.ID}, ended)
	mu.Unlock()
}

func TestExpiryTimer_FiresAndTombstones(t *testing.T) {
	m, store := newManager(&mockProfileAPI{})
	ctx := context.Background()

	sess, err := m.Login(ctx, userToken(t, "alice", "ADMIN", 50*time.Millisecond))
	assert.NoError(t, err)

	// let the timer fire
	time.Sleep(150 * time.Millisecond)

	_, err = m.RequireSession(ctx, sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	rec, err := store.Load(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Nil(t, rec)

	// tombstone is consumed: the next probe is plain not-authenticated
	_, err = m.RequireSession(ctx, sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestRestore_FromStoreAfterRestart(t *testing.T) {
	api := &mockProfileAPI{}
	store := session.NewMemoryStore()
	ctx := context.Background()

	first := session.NewManager(store, api, zap.NewNop())
	sess, err := first.Login(ctx, userToken(t, "alice", "ADMIN", time.Hour))
	assert.NoError(t, err)

	// a fresh manager sharing the store stands in for a restarted process
	second := session.NewManager(store, api, zap.NewNop())
	restored, err := second.RequireSession(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, sess.Token, restored.Token)
	assert.Equal(t, "alice", restored.User.Username)
}

func TestRestore_ExpiredRecordWipedQuietly(t *testing.T) {
	m, store := newManager(&mockProfileAPI{})
	ctx := context.Background()

	expired := userToken(t, "alice", "ADMIN", -time.Minute)
	err := store.Save(ctx, "stale-sid", &session.Record{Token: expired})
	assert.NoError(t, err)

	_, err = m.RequireSession(ctx, "stale-sid")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	rec, err := store.Load(ctx, "stale-sid")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRefresh_MergesProfile(t *testing.T) {
	api := &mockProfileAPI{
		getSessionFn: func(_ context.Context, token string) (models.CurrentUser, error) {
			return models.CurrentUser{
				Username: "alice",
				Role:     models.RoleApprover,
				FullName: "Alice Doe",
				Email:    "alice@example.com",
			}, nil
		},
	}
	m, _ := newManager(api)
	ctx := context.Background()

	sess, err := m.Login(ctx, userToken(t, "alice", "STORE_USER", time.Hour))
	assert.NoError(t, err)

	assert.NoError(t, m.Refresh(ctx, sess.ID))

	got, err := m.RequireSession(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleApprover, got.User.Role)
	assert.Equal(t, "Alice Doe", got.User.DisplayName)
	assert.Equal(t, "alice@example.com", got.User.Email)
}

func TestRefresh_UnauthorizedForcesLogout(t *testing.T) {
	api := &mockProfileAPI{
		getSessionFn: func(_ context.Context, _ string) (models.CurrentUser, error) {
			return models.CurrentUser{}, apperrors.ErrNotAuthenticated
		},
	}
	m, store := newManager(api)
	ctx := context.Background()

	sess, err := m.Login(ctx, userToken(t, "alice", "ADMIN", time.Hour))
	assert.NoError(t, err)

	err = m.Refresh(ctx, sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = m.RequireSession(ctx, sess.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	rec, err := store.Load(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRefresh_NetworkFailureLeavesSessionIntact(t *testing.T) {
	api := &mockProfileAPI{
		getSessionFn: func(_ context.Context, _ string) (models.CurrentUser, error) {
			return models.CurrentUser{}, apperrors.Upstream(context.DeadlineExceeded)
		},
	}
	m, _ := newManager(api)
	ctx := context.Background()

	sess, err := m.Login(ctx, userToken(t, "alice", "ADMIN", time.Hour))
	assert.NoError(t, err)

	assert.Error(t, m.Refresh(ctx, sess.ID))

	got, err := m.RequireSession(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.User.Role)
}

func TestRefreshAll_CoversEverySession(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	api := &mockProfileAPI{
		getSessionFn: func(_ context.Context, token string) (models.CurrentUser, error) {
			mu.Lock()
			seen[token]++
			mu.Unlock()
			return models.CurrentUser{}, nil
		},
	}
	m, _ := newManager(api)
	ctx := context.Background()

	t1 := userToken(t, "alice", "ADMIN", time.Hour)
	t2 := userToken(t, "bob", "STORE_USER", time.Hour)
	_, err := m.Login(ctx, t1)
	assert.NoError(t, err)
	_, err = m.Login(ctx, t2)
	assert.NoError(t, err)

	assert.NoError(t, m.RefreshAll(ctx))

	mu.Lock()
	assert.Equal(t, 1, seen[t1])
	assert.Equal(t, 1, seen[t2])
	mu.Unlock()
}
