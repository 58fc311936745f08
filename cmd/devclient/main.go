package main

import (
	"context"
	"time"

	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/session"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/fakestore"
	"github.com/MarcoSafwat16/AMScout/utils/flag"
	. "github.com/MarcoSafwat16/AMScout/utils/log"
)

// Single-viewer walkthrough of the session lifecycle against the in-memory
// store: sign in, observe the hydrated snapshot, sign out. Useful for
// poking at the engine and presence tracking without a Redis instance.

func seedStore(docs *fakestore.Store) {
	now := time.Now().UTC()
	docs.Seed(store.CollectionUsers, "u1", map[string]interface{}{
		"username": "Aria", "fullName": "Aria Smith", "team": "rangers",
		"following": []interface{}{"u2"},
	})
	docs.Seed(store.CollectionUsers, "u2", map[string]interface{}{
		"username": "LeoSynth", "fullName": "Leo Synth", "team": "rovers",
	})
	docs.Seed(store.CollectionPosts, "p1", map[string]interface{}{
		"authorId":  "u2",
		"caption":   "First campfire of the season.",
		"comments":  []interface{}{},
		"timestamp": now.Add(-10 * time.Minute),
		"type":      string(model.PostTypeStandard),
	})
}

func main() {
	flag.Parse()
	docs := fakestore.NewStore()
	seedStore(docs)
	auth := fakestore.NewAuth()

	m := session.NewManager(auth, docs, docs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer m.Run(ctx)()

	auth.SignIn("u1")
	s := m.Current()
	if s == nil {
		Log.Fatal("no session after sign in")
	}

	// Give the engine a moment to resolve the initial snapshots.
	time.Sleep(200 * time.Millisecond)
	latest := s.Engine.Latest()
	Log.Infof("signed in as %s: %d users, %d posts resolved",
		s.ViewerId, len(latest.Users), len(latest.Posts))

	if err := m.SignOut(ctx); err != nil {
		Log.Fatal("failed to sign out: ", err)
	}
	Log.Info("signed out, session torn down")
}
