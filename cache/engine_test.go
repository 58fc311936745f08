package cache

import (
	"context"
	"testing"
	"time"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/fakestore"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBase(docs *fakestore.Store) {
	docs.Seed(store.CollectionUsers, "u1", map[string]interface{}{"username": "aria"})
	docs.Seed(store.CollectionPosts, "p1", map[string]interface{}{
		"authorId":  "u1",
		"caption":   "hello",
		"timestamp": "2024-05-01T12:00:00Z",
	})
}

// settle gives the event loop time to drain pending snapshots.
func settle() {
	time.Sleep(200 * time.Millisecond)
}

func TestEngineHydratesInitialSnapshots(t *testing.T) {
	docs := fakestore.NewStore()
	seedBase(docs)

	e := NewEngine(docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))
	settle()

	res := e.Latest()
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "p1", res.Posts[0].Id)
	require.NotNil(t, res.Posts[0].Author)
	assert.Equal(t, "aria", res.Posts[0].Author.Username)
}

func TestEngineSnapshotReplacementEvictsRemoved(t *testing.T) {
	docs := fakestore.NewStore()
	seedBase(docs)

	e := NewEngine(docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))
	settle()
	require.Len(t, e.Latest().Posts, 1)

	// Each snapshot fully replaces the collection: a deleted document is
	// gone from the next resolve, without any tombstone handling.
	require.NoError(t, docs.Delete(ctx, store.CollectionPosts, "p1"))
	settle()
	assert.Empty(t, e.Latest().Posts)
}

func TestEnginePostReappearsWithItsAuthor(t *testing.T) {
	docs := fakestore.NewStore()
	docs.Seed(store.CollectionPosts, "p1", map[string]interface{}{
		"authorId":  "ghost",
		"timestamp": "2024-05-01T12:00:00Z",
	})

	e := NewEngine(docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))
	settle()
	assert.Empty(t, e.Latest().Posts)

	// The unresolved post was retained raw; the author arriving in a later
	// users snapshot brings it into the resolved view.
	docs.Seed(store.CollectionUsers, "ghost", map[string]interface{}{"username": "ghost"})
	settle()
	assert.Len(t, e.Latest().Posts, 1)
}

func TestEngineRetainsStaleSnapshotOnError(t *testing.T) {
	docs := fakestore.NewStore()
	seedBase(docs)

	failures := make(chan string, 1)
	e := NewEngine(docs, WithSubscriptionErrorHandler(func(collection string, err error) {
		failures <- collection
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))
	settle()

	docs.EmitError(store.CollectionPosts, errors.New("stream broken"))
	settle()

	select {
	case collection := <-failures:
		assert.Equal(t, store.CollectionPosts, collection)
	default:
		t.Fatal("expected the subscription error to be surfaced")
	}
	// The last-known posts snapshot stays readable.
	assert.Len(t, e.Latest().Posts, 1)
}

func TestEngineLatestNeverNil(t *testing.T) {
	e := NewEngine(fakestore.NewStore())
	res := e.Latest()
	require.NotNil(t, res)
	assert.Empty(t, res.Posts)
	assert.Empty(t, res.Users)
}

func TestEngineListenerReceivesUpdates(t *testing.T) {
	docs := fakestore.NewStore()
	seedBase(docs)

	e := NewEngine(docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))
	settle()

	ch := e.AddListener(ctx)
	require.NoError(t, docs.Set(ctx, store.CollectionPosts, "p2", map[string]interface{}{
		"authorId":  "u1",
		"timestamp": "2024-05-01T13:00:00Z",
	}))

	select {
	case res := <-ch:
		assert.Len(t, res.Posts, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a resolve result on the listener channel")
	}
}

func TestEngineListenerCleanup(t *testing.T) {
	e := NewEngine(fakestore.NewStore())
	ctx, cancel := context.WithCancel(context.Background())

	e.AddListener(ctx)
	e.AddListener(ctx)
	assert.Equal(t, 2, e.ActiveListenerCount())

	cancel()

	// Force a context switch so the cleanup goroutines run.
	time.Sleep(1 * time.Second)
	assert.Equal(t, 0, e.ActiveListenerCount())
}

func TestEngineSlowListenerOnlySeesNewest(t *testing.T) {
	docs := fakestore.NewStore()
	seedBase(docs)

	e := NewEngine(docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))
	settle()

	ch := e.AddListener(ctx)
	for i := 0; i < 5; i++ {
		require.NoError(t, docs.Update(ctx, store.CollectionUsers, "u1", map[string]interface{}{
			"points": i,
		}))
	}
	settle()

	// The buffered slot was replaced on every publish; the value read now is
	// the newest resolve result.
	select {
	case res := <-ch:
		assert.Equal(t, 4, res.Users["u1"].Points)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a resolve result on the listener channel")
	}
}
