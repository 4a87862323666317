package service

import (
	"context"
	"time"

	"AstralLink/logger"
	usermodel "AstralLink/module/user/model"
	"AstralLink/tools/errs"
)

// SessionTTL is the fixed session lifetime policy.
const SessionTTL = 7 * 24 * time.Hour

// AuthGate resolves opaque session tokens to user identities and owns the
// session lifecycle. Resolve is a pure read; there is no implicit refresh.
type AuthGate struct {
	Sessions SessionStore
	Users    UserStore
	Presence PresenceMirror   // optional
	Now      func() time.Time // injectable clock, nil => time.Now
}

func NewAuthGate(sessions SessionStore, users UserStore, presence PresenceMirror) *AuthGate {
	return &AuthGate{Sessions: sessions, Users: users, Presence: presence}
}

func (g *AuthGate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Resolve maps a token to its user. Missing token, missing/expired session
// and deleted user all answer ErrUnauthenticated; callers never see a
// partial identity.
func (g *AuthGate) Resolve(ctx context.Context, token string) (*usermodel.User, error) {
	if token == "" {
		return nil, errs.ErrUnauthenticated
	}
	sess, err := g.Sessions.FindValid(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errs.ErrUnauthenticated
	}
	u, err := g.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errs.ErrUnauthenticated
	}
	return u, nil
}

// CreateSession inserts a new session row for userID and flips the user
// online. Sessions are additive: concurrent logins from several devices each
// get their own row.
func (g *AuthGate) CreateSession(ctx context.Context, userID, token string) (usermodel.UserSession, error) {
	now := g.now()
	sess := usermodel.UserSession{
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    now.Add(SessionTTL),
		CreatedAt:    now,
	}
	if err := g.Sessions.Insert(ctx, sess); err != nil {
		return usermodel.UserSession{}, err
	}
	g.setStatus(ctx, userID, usermodel.StatusOnline)
	return sess, nil
}

// DestroySession deletes the row and flips the user offline. An unknown or
// already-expired token is a no-op success: logout always succeeds.
func (g *AuthGate) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	// Look the session up first; after the delete there is no way back to
	// the user id.
	sess, err := g.Sessions.FindValid(ctx, token)
	if err != nil {
		return err
	}
	if err := g.Sessions.DeleteByToken(ctx, token); err != nil {
		return err
	}
	if sess != nil {
		g.setStatus(ctx, sess.UserID, usermodel.StatusOffline)
		if g.Presence != nil {
			if err := g.Presence.Clear(ctx, sess.UserID); err != nil {
				logger.Warnf("[AuthGate] presence clear user=%s err=%v", sess.UserID, err)
			}
		}
	}
	return nil
}

func (g *AuthGate) setStatus(ctx context.Context, userID, status string) {
	if err := g.Users.UpdateStatus(ctx, userID, status); err != nil {
		logger.Warnf("[AuthGate] update status user=%s status=%s err=%v", userID, status, err)
	}
	if g.Presence != nil && status != usermodel.StatusOffline {
		if err := g.Presence.Set(ctx, userID, status); err != nil {
			logger.Warnf("[AuthGate] presence set user=%s err=%v", userID, err)
		}
	}
}
