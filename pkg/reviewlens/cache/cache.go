// Package cache memoizes whole analysis runs. Entries are content addressed
// and expire after a TTL; an expired entry is simply treated as absent.
//
// Entries are replaced wholesale and never patched. Concurrent runs against
// the same key are not serialized: the last writer wins.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// Entry is one cached payload.
type Entry struct {
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// Store persists entries.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, e Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key hashes its parts into a cache key. Parts are length-prefixed so
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s;", len(p), p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ReadThrough applies the TTL on top of a Store and turns store failures into
// misses.
type ReadThrough struct {
	Store  Store
	TTL    time.Duration
	Now    func() time.Time
	Logger logrus.FieldLogger
}

func (r *ReadThrough) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *ReadThrough) log() logrus.FieldLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.StandardLogger()
}

// Lookup returns the payload for key if present and younger than the TTL.
func (r *ReadThrough) Lookup(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.Store == nil {
		return nil, false
	}
	e, ok, err := r.Store.Get(ctx, key)
	if err != nil {
		r.log().WithError(fmt.Errorf("%w: %v", internalerr.ErrCacheUnavailable, err)).
			WithField("cache_key", key).Warn("cache lookup failed, recomputing")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if len(e.Payload) == 0 {
		r.log().WithError(internalerr.ErrCorruptEntry).WithField("cache_key", key).Warn("empty cache entry, recomputing")
		return nil, false
	}
	if r.now().Sub(e.CreatedAt) >= r.TTL {
		return nil, false
	}
	return e.Payload, true
}

// Save stores payload under key, replacing any previous entry. Failures are
// logged and otherwise ignored.
func (r *ReadThrough) Save(ctx context.Context, key string, payload []byte, createdAt time.Time) {
	if r == nil || r.Store == nil {
		return
	}
	e := Entry{Key: key, Payload: payload, CreatedAt: createdAt}
	if err := r.Store.Put(ctx, e); err != nil {
		r.log().WithError(fmt.Errorf("%w: %v", internalerr.ErrCacheUnavailable, err)).
			WithField("cache_key", key).Warn("cache write failed")
	}
}

// Invalidate drops the entry for key.
func (r *ReadThrough) Invalidate(ctx context.Context, key string) error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Delete(ctx, key)
}
