package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: "adminstack:test:session:"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	sess := New("redis-test", time.Minute)
	sess.State = sampleState()
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "redis-test")
	if err != nil || got == nil || len(got.State.Breadcrumbs) != 2 {
		t.Fatalf("Get() = %+v, %v", got, err)
	}
	if err := store.Delete(ctx, "redis-test"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, "redis-test"); got != nil {
		t.Error("Get() after Delete should be nil")
	}
}

func TestRedisStore_Missing(t *testing.T) {
	store, _ := newTestRedisStore(t)
	got, err := store.Get(context.Background(), "nobody")
	if err != nil || got != nil {
		t.Errorf("Get() = %+v, %v; want nil, nil", got, err)
	}
}

func TestRedisStore_KeyExpiresWithSession(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, New("short", time.Minute)); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("adminstack:test:session:short"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("key TTL = %v, want within a minute", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if got, _ := store.Get(ctx, "short"); got != nil {
		t.Error("Get() returned a session after its key expired")
	}
}
