// Package session persists navigation stack state between processes.
//
// A [Session] wraps the serializable [stack.State] of one stack together
// with its lifetime. Two [Store] backends are provided:
//
//   - [FileStore] keeps one JSON file per session, used by the CLI so that
//     consecutive "adminstack crumbs" invocations share a stack
//   - [RedisStore] keeps sessions in Redis with native expiry, used by the
//     HTTP server so that every instance sees the same stacks
//
// Typical use:
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    sess = session.New(id, session.DefaultTTL)
//	}
//	s := stack.New(nav, stack.WithState(sess.State))
//	// ... mutate s ...
//	sess.State = s.Snapshot()
//	return store.Set(ctx, sess)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/adminstack/pkg/stack"
)

// ErrNotFound is returned by Load when a session does not exist.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the lifetime of a new session.
const DefaultTTL = 7 * 24 * time.Hour

// Session is the persisted state of one navigation stack.
type Session struct {
	ID        string      `json:"id"`
	State     stack.State `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// New returns an empty session that expires after ttl. A zero ttl never
// expires.
func New(id string, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{ID: id, CreatedAt: now}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch extends the expiry to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	if ttl > 0 {
		s.ExpiresAt = time.Now().Add(ttl)
	}
}

// Store is implemented by session backends.
type Store interface {
	// Get returns the session, or nil, nil when it does not exist or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Missing sessions are not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. Backends with native expiry may
	// treat it as a no-op.
	Cleanup(ctx context.Context) error
}

// Load returns the session id or ErrNotFound.
func Load(ctx context.Context, store Store, id string) (*Session, error) {
	s, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

// LoadOrNew returns the session id, creating an empty one when missing.
func LoadOrNew(ctx context.Context, store Store, id string, ttl time.Duration) (*Session, error) {
	s, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = New(id, ttl)
	}
	return s, nil
}
