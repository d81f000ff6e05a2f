package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// markerGrace keeps jti markers around slightly longer than the tokens they
// track, so a replay near expiry is still observed.
const markerGrace = 15 * time.Minute

// ReplayChecker records token ids (jti) as they are presented so repeated use
// of the same token can be distinguished for audit. Observational only: a
// token's validity is proven by its signature and expiry, never by a marker.
// Key format: jti:<token_id>
type ReplayChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReplayChecker creates a ReplayChecker whose markers outlive tokenTTL by
// a small grace window.
func NewReplayChecker(client *redis.Client, tokenTTL time.Duration) *ReplayChecker {
	return &ReplayChecker{client: client, ttl: tokenTTL + markerGrace}
}

// Seen marks tokenID as presented and reports whether it had already been
// presented before.
func (r *ReplayChecker) Seen(ctx context.Context, tokenID string) (bool, error) {
	fresh, err := r.client.SetNX(ctx, r.key(tokenID), "1", r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay check: %w", err)
	}
	return !fresh, nil
}

func (r *ReplayChecker) key(tokenID string) string {
	return "jti:" + tokenID
}
