package session

import (
	"context"
	"testing"
	"time"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/fakestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	docs := fakestore.NewStore()
	seedViewer(docs)
	auth := fakestore.NewAuth()

	m := NewManager(auth, docs, docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	detach := m.Run(ctx)
	defer detach()
	assert.Nil(t, m.Current())

	auth.SignIn("u1")
	session := m.Current()
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.ViewerId)
	assert.Equal(t, PresenceOnline, session.Presence.State())
	assert.True(t, viewerState(t, docs).IsOnline)

	// Engine is live: the seeded user shows up in the resolved view.
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, session.Engine.Latest().Users, 1)

	require.NoError(t, m.SignOut(ctx))
	assert.Nil(t, m.Current())
	assert.False(t, viewerState(t, docs).IsOnline)
}

func TestManagerReplacesSessionOnNewIdentity(t *testing.T) {
	docs := fakestore.NewStore()
	seedViewer(docs)
	docs.Seed(store.CollectionUsers, "u2", map[string]interface{}{"username": "leo"})
	auth := fakestore.NewAuth()

	m := NewManager(auth, docs, docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer m.Run(ctx)()

	auth.SignIn("u1")
	first := m.Current()
	require.NotNil(t, first)

	auth.SignIn("u2")
	second := m.Current()
	require.NotNil(t, second)
	assert.Equal(t, "u2", second.ViewerId)
	assert.NotSame(t, first, second)

	// The first viewer was marked offline during the handover.
	assert.False(t, viewerState(t, docs).IsOnline)
}
