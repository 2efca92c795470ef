package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/cognicore/reviewlens/pkg/reviewlens/cache"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache/memcache"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (cache.Entry, bool, error) {
	return cache.Entry{}, false, f.err
}
func (f failingStore) Put(context.Context, cache.Entry) error { return f.err }
func (f failingStore) Delete(context.Context, string) error   { return f.err }
func (f failingStore) Close() error                           { return nil }

func TestKey(t *testing.T) {
	if cache.Key("ab", "c") == cache.Key("a", "bc") {
		t.Fatal("length prefix missing")
	}
	if cache.Key("x", "y") != cache.Key("x", "y") {
		t.Fatal("Key not deterministic")
	}
	if len(cache.Key()) != 64 {
		t.Fatalf("unexpected key length %d", len(cache.Key()))
	}
}

func TestReadThroughTTL(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := base
	rt := &cache.ReadThrough{
		Store: memcache.New(),
		TTL:   time.Hour,
		Now:   func() time.Time { return now },
	}

	if _, ok := rt.Lookup(ctx, "k"); ok {
		t.Fatal("hit on empty store")
	}
	rt.Save(ctx, "k", []byte(`{"a":1}`), base)

	now = base.Add(59 * time.Minute)
	got, ok := rt.Lookup(ctx, "k")
	if !ok || string(got) != `{"a":1}` {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}

	now = base.Add(time.Hour)
	if _, ok := rt.Lookup(ctx, "k"); ok {
		t.Fatal("entry at exactly TTL age must be treated as absent")
	}

	rt.Save(ctx, "k", []byte(`{"a":2}`), now)
	got, ok = rt.Lookup(ctx, "k")
	if !ok || string(got) != `{"a":2}` {
		t.Fatalf("replacement Lookup = %q, %v", got, ok)
	}

	if err := rt.Invalidate(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.Lookup(ctx, "k"); ok {
		t.Fatal("hit after Invalidate")
	}
}

func TestReadThroughDegradesOnStoreErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	rt := &cache.ReadThrough{
		Store:  failingStore{err: errors.New("disk gone")},
		TTL:    time.Hour,
		Logger: logger,
	}
	ctx := context.Background()

	if _, ok := rt.Lookup(ctx, "k"); ok {
		t.Fatal("hit from failing store")
	}
	rt.Save(ctx, "k", []byte("x"), time.Now())

	if len(hook.AllEntries()) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(hook.AllEntries()))
	}
	for _, e := range hook.AllEntries() {
		if e.Level != logrus.WarnLevel {
			t.Errorf("level = %s", e.Level)
		}
		if e.Data["cache_key"] != "k" {
			t.Errorf("missing cache_key field: %v", e.Data)
		}
	}
}

func TestReadThroughEmptyPayloadIsMiss(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := memcache.New()
	ctx := context.Background()
	_ = store.Put(ctx, cache.Entry{Key: "k", CreatedAt: time.Now()})

	rt := &cache.ReadThrough{Store: store, TTL: time.Hour, Logger: logger}
	if _, ok := rt.Lookup(ctx, "k"); ok {
		t.Fatal("empty payload must be a miss")
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatal("expected a warning for the corrupt entry")
	}
}

func TestNilReadThrough(t *testing.T) {
	var rt *cache.ReadThrough
	ctx := context.Background()
	if _, ok := rt.Lookup(ctx, "k"); ok {
		t.Fatal("nil read-through hit")
	}
	rt.Save(ctx, "k", []byte("x"), time.Now())
	if err := rt.Invalidate(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

func TestMemcacheCopiesPayload(t *testing.T) {
	s := memcache.New()
	ctx := context.Background()
	payload := []byte("abc")
	_ = s.Put(ctx, cache.Entry{Key: "k", Payload: payload})
	payload[0] = 'z'

	e, ok, _ := s.Get(ctx, "k")
	if !ok || string(e.Payload) != "abc" {
		t.Fatalf("stored payload mutated: %q", e.Payload)
	}
	e.Payload[0] = 'y'
	e2, _, _ := s.Get(ctx, "k")
	if string(e2.Payload) != "abc" {
		t.Fatalf("returned payload aliases store: %q", e2.Payload)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
}
