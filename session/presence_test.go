package session

import (
	"context"
	"testing"

	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/fakestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedViewer(docs *fakestore.Store) {
	docs.Seed(store.CollectionUsers, "u1", map[string]interface{}{"username": "aria"})
}

func viewerState(t *testing.T, docs *fakestore.Store) model.User {
	t.Helper()
	doc, err := docs.Get(context.Background(), store.CollectionUsers, "u1")
	require.NoError(t, err)
	var user model.User
	require.NoError(t, doc.Decode(&user))
	return user
}

func TestPresenceVisibilityTransitions(t *testing.T) {
	docs := fakestore.NewStore()
	seedViewer(docs)
	ctx := context.Background()

	p := NewPresence(docs, "u1")
	assert.Equal(t, PresenceOffline, p.State())

	p.HandleVisibility(ctx, true)
	assert.Equal(t, PresenceOnline, p.State())
	user := viewerState(t, docs)
	assert.True(t, user.IsOnline)
	assert.False(t, user.LastSeen.IsZero())

	p.HandleVisibility(ctx, false)
	assert.Equal(t, PresenceOffline, p.State())
	assert.False(t, viewerState(t, docs).IsOnline)
}

func TestPresenceSkipsRedundantWrites(t *testing.T) {
	docs := fakestore.NewStore()
	seedViewer(docs)
	ctx := context.Background()

	p := NewPresence(docs, "u1")
	p.HandleVisibility(ctx, true)

	// Pin a marker; a redundant visibility event must not rewrite lastSeen.
	before := viewerState(t, docs).LastSeen
	require.NoError(t, docs.Update(ctx, store.CollectionUsers, "u1", map[string]interface{}{
		"lastSeen": "2020-01-01T00:00:00Z",
	}))

	p.HandleVisibility(ctx, true)
	assert.NotEqual(t, before, viewerState(t, docs).LastSeen)
	assert.Equal(t, "2020-01-01T00:00:00Z", viewerState(t, docs).LastSeen.Format("2006-01-02T15:04:05Z"))
}

func TestPresenceForceTransitions(t *testing.T) {
	docs := fakestore.NewStore()
	seedViewer(docs)
	ctx := context.Background()

	p := NewPresence(docs, "u1")
	p.ForceOnline(ctx)
	assert.True(t, viewerState(t, docs).IsOnline)

	p.ForceOffline(ctx)
	assert.False(t, viewerState(t, docs).IsOnline)

	// Force transitions write unconditionally, even without a state change.
	require.NoError(t, docs.Update(ctx, store.CollectionUsers, "u1", map[string]interface{}{
		"isOnline": true,
	}))
	p.ForceOffline(ctx)
	assert.False(t, viewerState(t, docs).IsOnline)
}

func TestPresenceWriteFailureIsNotFatal(t *testing.T) {
	docs := fakestore.NewStore()
	// No viewer record exists, so every write fails with not-found.
	p := NewPresence(docs, "missing")

	p.ForceOnline(context.Background())
	assert.Equal(t, PresenceOnline, p.State())
}
