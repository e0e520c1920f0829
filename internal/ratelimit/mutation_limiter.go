package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/avbinvest/staffsync/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyMembershipMutation = "membership:mutation:%s"

// MutationLimiter throttles membership mutation endpoints per caller. It is
// disabled when no redis address is configured; every check then passes.
type MutationLimiter struct {
	enabled  bool
	bucket   *TokenBucket
	tunables *config.TunablesHolder
}

func NewMutationLimiter(cfg config.Config, tunables *config.TunablesHolder) *MutationLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})

	return &MutationLimiter{
		enabled:  true,
		bucket:   NewTokenBucket(client),
		tunables: tunables,
	}
}

func (l *MutationLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow consumes one token for the given caller key.
func (l *MutationLimiter) Allow(ctx context.Context, callerKey string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	t := l.tunables.Current()
	return l.bucket.Allow(ctx, fmt.Sprintf(keyMembershipMutation, strings.TrimSpace(callerKey)), t.RateLimitPerSec, t.RateLimitBurst)
}
