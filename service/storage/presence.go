package storage

import (
	"context"
	"time"

	redisx "AstralLink/service/storage/redis"
)

// presence key: astral:presence:<user>
// Value is the status string; TTL bounds how long a stale status survives a
// crashed process. Mongo stays the authoritative record, this is the hot path.
func presenceKey(user string) string { return "astral:presence:" + user }

const presenceTTL = 24 * time.Hour

// SetStatus mirrors a user's status (online/offline/idle) into redis.
func SetStatus(ctx context.Context, user, status string) error {
	return redisx.GetRedis().Set(ctx, presenceKey(user), status, presenceTTL).Err()
}

// ClearStatus drops the cached entry (logout).
func ClearStatus(ctx context.Context, user string) error {
	return redisx.GetRedis().Del(ctx, presenceKey(user)).Err()
}
