package storage

import "context"

// Mirror adapts the presence helpers to the user service's PresenceMirror
// interface so the gate stays decoupled from redis in tests.
type Mirror struct{}

func (Mirror) Set(ctx context.Context, user, status string) error {
	return SetStatus(ctx, user, status)
}

func (Mirror) Clear(ctx context.Context, user string) error {
	return ClearStatus(ctx, user)
}
