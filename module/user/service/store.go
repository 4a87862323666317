package service

import (
	"context"

	usermodel "AstralLink/module/user/model"
)

// SessionStore is the persisted token -> identity mapping. FindValid must
// treat an expired row exactly like a missing one.
type SessionStore interface {
	FindValid(ctx context.Context, token string) (*usermodel.UserSession, error)
	Insert(ctx context.Context, s usermodel.UserSession) error
	DeleteByToken(ctx context.Context, token string) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*usermodel.User, error)
	FindByEmail(ctx context.Context, email string) (*usermodel.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]usermodel.User, error)
	Insert(ctx context.Context, u usermodel.User) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// PresenceMirror is the optional hot cache for user status; nil disables it.
type PresenceMirror interface {
	Set(ctx context.Context, user, status string) error
	Clear(ctx context.Context, user string) error
}
