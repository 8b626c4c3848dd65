package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// GetOrSet implements cache-aside: on a hit within TTL the cached bytes are
// decoded into dest without invoking compute; on a miss compute runs, its
// result is stored with a fresh expiry and decoded into dest.
//
// A failing cache backend must never fail the read path: backend errors are
// logged and the call degrades to direct computation. The computed value is
// round-tripped through JSON on both paths so cached and uncached reads are
// byte-identical in shape.
func GetOrSet(ctx context.Context, store Store, logger *logrus.Entry, key string, ttl time.Duration, compute func() (any, error), dest any) error {
	cached, err := store.Get(ctx, key)
	if err == nil {
		decodeErr := json.Unmarshal(cached, dest)
		if decodeErr == nil {
			return nil
		}
		// A corrupt entry counts as a miss; recompute and overwrite it.
		logger.WithError(decodeErr).WithField("key", key).Warn("corrupt cache entry, recomputing")
	} else if !errors.Is(err, ErrMiss) {
		logger.WithError(err).WithField("key", key).Warn("cache backend unavailable, computing directly")
	}

	value, err := compute()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := store.Set(ctx, key, encoded, ttl); err != nil {
		logger.WithError(err).WithField("key", key).Warn("failed to populate cache")
	}

	return json.Unmarshal(encoded, dest)
}
