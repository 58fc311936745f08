package cache

import (
	"encoding/json"
	"testing"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, body string) store.Document {
	return store.Document{Id: id, Data: json.RawMessage(body)}
}

func TestApplyReplacesSnapshot(t *testing.T) {
	c := NewCache()

	require.NoError(t, c.Apply(store.CollectionUsers, []store.Document{
		doc("u1", `{"username":"aria"}`),
		doc("u2", `{"username":"leo"}`),
	}))
	assert.Len(t, c.Collections().Users, 2)
	assert.Equal(t, "aria", c.Collections().Users["u1"].Username)

	// The next snapshot replaces the mapping wholesale: u2 is gone without
	// any delta handling.
	require.NoError(t, c.Apply(store.CollectionUsers, []store.Document{
		doc("u1", `{"username":"aria"}`),
	}))
	assert.Len(t, c.Collections().Users, 1)
}

func TestApplyDoesNotMutatePreviousSnapshot(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Apply(store.CollectionUsers, []store.Document{
		doc("u1", `{"username":"aria"}`),
	}))
	before := c.Collections().Users

	require.NoError(t, c.Apply(store.CollectionUsers, []store.Document{}))

	assert.Len(t, before, 1)
	assert.Empty(t, c.Collections().Users)
}

func TestApplySkipsUndecodableDocument(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Apply(store.CollectionPosts, []store.Document{
		doc("p1", `{"authorId":"u1"}`),
		doc("bad", `{"authorId":42}`),
	}))

	posts := c.Collections().Posts
	assert.Len(t, posts, 1)
	assert.Equal(t, "u1", posts["p1"].AuthorId)
}

func TestApplyStoryGroupIdIsOwner(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Apply(store.CollectionUserStories, []store.Document{
		doc("u1", `{"stories":[]}`),
	}))
	assert.Equal(t, "u1", c.Collections().Stories["u1"].UserId)
}

func TestApplySettings(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Apply(store.CollectionSettings, []store.Document{
		doc("other", `{"promoBannerText":"ignored"}`),
		doc(store.AppConfigDocId, `{"promoBannerText":"welcome"}`),
	}))
	assert.Equal(t, "welcome", c.Collections().Config.PromoBannerText)
}

func TestApplyUnknownCollection(t *testing.T) {
	c := NewCache()
	assert.Error(t, c.Apply("bogus", nil))
}
