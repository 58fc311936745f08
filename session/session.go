package session

import (
	"context"
	"sync"

	"github.com/MarcoSafwat16/AMScout/cache"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/utils/log"
	"github.com/pkg/errors"
)

// Session is the process-wide state of a signed-in viewer: the sync engine
// with its subscriptions, and the viewer's presence tracker. It is created
// on auth success and torn down on sign-out; components receive the viewer
// identity from it explicitly instead of reading ambient globals.
type Session struct {
	ViewerId string
	Engine   *cache.Engine
	Presence *Presence

	cancel context.CancelFunc
}

// Manager observes the auth boundary and drives session lifecycle.
type Manager struct {
	auth   store.Authenticator
	docs   store.DocumentStore
	source store.SubscriptionSource
	opts   []cache.Option

	mu      sync.Mutex
	current *Session
}

func NewManager(auth store.Authenticator, docs store.DocumentStore, source store.SubscriptionSource, opts ...cache.Option) *Manager {
	return &Manager{
		auth:   auth,
		docs:   docs,
		source: source,
		opts:   opts,
	}
}

// Run subscribes to auth changes and keeps exactly one session alive while
// an identity is signed in. It returns a cancel function detaching from the
// auth source; any live session is torn down through SignOut or ctx.
func (m *Manager) Run(ctx context.Context) func() {
	return m.auth.OnAuthChange(func(userId string) {
		if userId == "" {
			m.teardown(ctx)
			return
		}
		if err := m.startSession(ctx, userId); err != nil {
			// Without the users subscription the app cannot reach a usable
			// state; this is the one blocking failure of the pipeline.
			log.Log.Error("failed to start session for ", userId, ": ", err)
		}
	})
}

// Current returns the live session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) startSession(ctx context.Context, userId string) error {
	m.teardown(ctx)

	sessionCtx, cancel := context.WithCancel(ctx)
	engine := cache.NewEngine(m.source, m.opts...)
	if err := engine.Start(sessionCtx); err != nil {
		cancel()
		return errors.Wrap(err, "start sync engine")
	}

	presence := NewPresence(m.docs, userId)
	presence.ForceOnline(sessionCtx)

	m.mu.Lock()
	m.current = &Session{
		ViewerId: userId,
		Engine:   engine,
		Presence: presence,
		cancel:   cancel,
	}
	m.mu.Unlock()
	return nil
}

// teardown marks the viewer offline and then cancels every subscription of
// the session, in that order.
func (m *Manager) teardown(ctx context.Context) {
	m.mu.Lock()
	session := m.current
	m.current = nil
	m.mu.Unlock()

	if session == nil {
		return
	}
	session.Presence.ForceOffline(ctx)
	session.cancel()
}

// SignOut tears down the live session and terminates the auth session.
func (m *Manager) SignOut(ctx context.Context) error {
	m.teardown(ctx)
	return m.auth.SignOut(ctx)
}
