package service

import (
	"context"
	"testing"
	"time"

	usermodel "AstralLink/module/user/model"
	"AstralLink/tools/errs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessions struct {
	rows map[string]usermodel.UserSession
	now  func() time.Time
}

func newMemSessions(now func() time.Time) *memSessions {
	return &memSessions{rows: map[string]usermodel.UserSession{}, now: now}
}

func (s *memSessions) FindValid(_ context.Context, token string) (*usermodel.UserSession, error) {
	row, ok := s.rows[token]
	if !ok || !row.ExpiresAt.After(s.now()) {
		return nil, nil
	}
	cp := row
	return &cp, nil
}

func (s *memSessions) Insert(_ context.Context, sess usermodel.UserSession) error {
	s.rows[sess.SessionToken] = sess
	return nil
}

func (s *memSessions) DeleteByToken(_ context.Context, token string) error {
	delete(s.rows, token)
	return nil
}

type memUsers struct {
	rows map[string]usermodel.User
}

func newMemUsers(users ...usermodel.User) *memUsers {
	m := &memUsers{rows: map[string]usermodel.User{}}
	for _, u := range users {
		m.rows[u.ID] = u
	}
	return m
}

func (s *memUsers) FindByID(_ context.Context, id string) (*usermodel.User, error) {
	u, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*usermodel.User, error) {
	for _, u := range s.rows {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memUsers) FindByIDs(_ context.Context, ids []string) ([]usermodel.User, error) {
	out := []usermodel.User{}
	for _, id := range ids {
		if u, ok := s.rows[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memUsers) Insert(_ context.Context, u usermodel.User) error {
	s.rows[u.ID] = u
	return nil
}

func (s *memUsers) UpdateStatus(_ context.Context, id, status string) error {
	u, ok := s.rows[id]
	if !ok {
		return nil
	}
	u.Status = status
	s.rows[id] = u
	return nil
}

type memPresence struct {
	statuses map[string]string
	cleared  []string
}

func newMemPresence() *memPresence {
	return &memPresence{statuses: map[string]string{}}
}

func (p *memPresence) Set(_ context.Context, user, status string) error {
	p.statuses[user] = status
	return nil
}

func (p *memPresence) Clear(_ context.Context, user string) error {
	delete(p.statuses, user)
	p.cleared = append(p.cleared, user)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolveEmptyToken(t *testing.T) {
	gate := NewAuthGate(newMemSessions(time.Now), newMemUsers(), nil)
	_, err := gate.Resolve(context.Background(), "")
	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
}

func TestResolveUnknownToken(t *testing.T) {
	gate := NewAuthGate(newMemSessions(time.Now), newMemUsers(), nil)
	_, err := gate.Resolve(context.Background(), "no-such-token")
	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
}

// An expired session answers exactly like a missing one.
func TestResolveExpiredToken(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock(base)
	sessions := newMemSessions(clock)
	users := newMemUsers(usermodel.User{ID: "u1", Email: "a@x.io"})

	gate := NewAuthGate(sessions, users, nil)
	gate.Now = clock

	_, err := gate.CreateSession(context.Background(), "u1", "tok")
	require.NoError(t, err)

	gate.Now = fixedClock(base.Add(SessionTTL - time.Minute))
	sessions.now = gate.Now
	_, err = gate.Resolve(context.Background(), "tok")
	require.NoError(t, err)

	gate.Now = fixedClock(base.Add(SessionTTL + time.Minute))
	sessions.now = gate.Now
	_, err = gate.Resolve(context.Background(), "tok")
	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
}

func TestResolveDeletedUser(t *testing.T) {
	sessions := newMemSessions(time.Now)
	gate := NewAuthGate(sessions, newMemUsers(), nil)

	_, err := gate.CreateSession(context.Background(), "gone", "tok")
	require.NoError(t, err)

	_, err = gate.Resolve(context.Background(), "tok")
	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := newMemSessions(time.Now)
	users := newMemUsers(usermodel.User{ID: "u1", Email: "a@x.io", Status: usermodel.StatusOffline})
	presence := newMemPresence()
	gate := NewAuthGate(sessions, users, presence)

	sess, err := gate.CreateSession(ctx, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, SessionTTL, sess.ExpiresAt.Sub(sess.CreatedAt))

	u, err := gate.Resolve(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, usermodel.StatusOnline, users.rows["u1"].Status)
	assert.Equal(t, usermodel.StatusOnline, presence.statuses["u1"])

	require.NoError(t, gate.DestroySession(ctx, "tok"))
	_, err = gate.Resolve(ctx, "tok")
	assert.True(t, errors.Is(err, errs.ErrUnauthenticated))
	assert.Equal(t, usermodel.StatusOffline, users.rows["u1"].Status)
	assert.Equal(t, []string{"u1"}, presence.cleared)
}

// Logout with a token nobody knows still succeeds and touches nothing.
func TestDestroyUnknownTokenNoop(t *testing.T) {
	users := newMemUsers(usermodel.User{ID: "u1", Status: usermodel.StatusOnline})
	presence := newMemPresence()
	gate := NewAuthGate(newMemSessions(time.Now), users, presence)

	require.NoError(t, gate.DestroySession(context.Background(), "stale"))
	require.NoError(t, gate.DestroySession(context.Background(), ""))
	assert.Equal(t, usermodel.StatusOnline, users.rows["u1"].Status)
	assert.Empty(t, presence.cleared)
}

// Sessions are additive: a second device's login never kills the first.
func TestSessionsAreAdditive(t *testing.T) {
	ctx := context.Background()
	sessions := newMemSessions(time.Now)
	users := newMemUsers(usermodel.User{ID: "u1"})
	gate := NewAuthGate(sessions, users, nil)

	_, err := gate.CreateSession(ctx, "u1", "laptop")
	require.NoError(t, err)
	_, err = gate.CreateSession(ctx, "u1", "phone")
	require.NoError(t, err)

	for _, tok := range []string{"laptop", "phone"} {
		u, err := gate.Resolve(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	}

	require.NoError(t, gate.DestroySession(ctx, "laptop"))
	u, err := gate.Resolve(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}
