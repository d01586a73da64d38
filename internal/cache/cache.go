// Package cache provides the best-effort result cache used by the
// classification engine. Failures never abort a classification; callers
// treat any error as a miss or a skipped write.
package cache

import (
	"context"
	"time"
)

// Cache is the collaborator contract the engine depends on.
type Cache interface {
	// Get returns (found, value, err). A missing key is (false, "", nil).
	Get(ctx context.Context, key string) (bool, string, error)
	// SetWithTTL stores value under key with the given expiry.
	SetWithTTL(ctx context.Context, key string, value string, ttl time.Duration) error
}
