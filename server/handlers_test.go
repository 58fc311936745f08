package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MarcoSafwat16/AMScout/cache"
	"github.com/MarcoSafwat16/AMScout/dispatch"
	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/server/middlewares"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/blob"
	"github.com/MarcoSafwat16/AMScout/store/fakestore"
	"github.com/MarcoSafwat16/AMScout/suggest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	docs   *fakestore.Store
	engine *cache.Engine
	cancel context.CancelFunc
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, middlewares.Setup())
	gin.SetMode(gin.TestMode)

	docs := fakestore.NewStore()
	docs.Seed(store.CollectionUsers, "viewer", map[string]interface{}{"username": "aria", "following": []interface{}{"friend"}})
	docs.Seed(store.CollectionUsers, "friend", map[string]interface{}{"username": "leo"})
	docs.Seed(store.CollectionUsers, "muted", map[string]interface{}{"username": "quiet", "isMuted": true})
	docs.Seed(store.CollectionUsers, "blocked", map[string]interface{}{"username": "banned", "isBlocked": true})
	docs.Seed(store.CollectionUsers, "boss", map[string]interface{}{"username": "boss", "isAdmin": true})
	docs.Seed(store.CollectionPosts, "p1", map[string]interface{}{
		"authorId":  "friend",
		"caption":   "hello",
		"timestamp": "2024-05-01T12:00:00Z",
	})
	docs.Seed(store.CollectionProducts, "prod1", map[string]interface{}{
		"sellerId": "friend",
		"name":     "Hoodie",
		"price":    10.0,
		"category": "Apparel",
		"variants": map[string]interface{}{"Size": []interface{}{"S", "M"}},
	})

	engine := cache.NewEngine(docs)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, engine.Start(ctx))
	time.Sleep(200 * time.Millisecond)

	dispatcher := dispatch.NewDispatcher(docs, &blob.FakeBlobStore{}, func() map[string]model.User {
		return engine.Latest().Users
	})
	h := NewHandler(engine, dispatcher, suggest.Disabled{}, docs)

	ts := &testServer{router: NewRouter(h), docs: docs, engine: engine, cancel: cancel}
	t.Cleanup(cancel)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, asUser string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if asUser != "" {
		token, err := middlewares.IssueToken(asUser)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestPingIsPublic(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedProjection(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/feed", "viewer", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Posts []model.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "p1", res.Posts[0].Id)
	require.NotNil(t, res.Posts[0].Author)
	assert.Equal(t, "leo", res.Posts[0].Author.Username)
}

func TestBlockedViewerIsRejected(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/feed", "blocked", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnknownViewerIsRejected(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/feed", "stranger", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMutedViewerCanReadButNotWrite(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "GET", "/feed", "muted", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/posts/p1/comments", "muted", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddCommentEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/posts/p1/comments", "viewer", gin.H{"text": "nice one"})
	require.Equal(t, http.StatusCreated, w.Code)

	doc, err := ts.docs.Get(context.Background(), store.CollectionPosts, "p1")
	require.NoError(t, err)
	var post model.Post
	require.NoError(t, doc.Decode(&post))
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "nice one", post.Comments[0].Text)
	assert.Equal(t, "viewer", post.Comments[0].UserId)
}

func TestAddCommentValidationSurfaces(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/posts/p1/comments", "viewer", gin.H{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/posts/missing/comments", "viewer", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesGuarded(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/admin/users/friend/toggle-mute", "viewer", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "POST", "/admin/users/friend/toggle-mute", "boss", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	doc, err := ts.docs.Get(context.Background(), store.CollectionUsers, "friend")
	require.NoError(t, err)
	var user model.User
	require.NoError(t, doc.Decode(&user))
	assert.True(t, user.IsMuted)
}

func TestSetPointsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "PUT", "/admin/users/friend/points", "boss", gin.H{"points": 750})
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := ts.docs.Get(context.Background(), store.CollectionUsers, "friend")
	require.NoError(t, err)
	var user model.User
	require.NoError(t, doc.Decode(&user))
	assert.Equal(t, 750, user.Points)
}

func TestCartFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/cart/items", "viewer", gin.H{
		"productId": "prod1",
		"variant":   gin.H{"type": "Size", "value": "M"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown variants are rejected before touching the cart.
	w = ts.do(t, "POST", "/cart/items", "viewer", gin.H{
		"productId": "prod1",
		"variant":   gin.H{"type": "Size", "value": "XXL"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "GET", "/cart", "viewer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Items     []model.CartItem `json:"items"`
		Subtotal  float64          `json:"subtotal"`
		ItemCount int              `json:"itemCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod1_Size_M", cart.Items[0].CartItemId)
	assert.Equal(t, 10.0, cart.Subtotal)

	w = ts.do(t, "POST", "/checkout", "viewer", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "POST", "/checkout", "viewer", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowEndpointEchoesThroughEngine(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/follow/viewer", "friend", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The write lands in the store and comes back through the subscription.
	time.Sleep(200 * time.Millisecond)
	friend := ts.engine.Latest().Users["friend"]
	assert.True(t, friend.IsFollowing("viewer"))

	w = ts.do(t, "POST", "/follow/friend", "friend", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPresenceEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/presence", "viewer", gin.H{"visible": true})
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := ts.docs.Get(context.Background(), store.CollectionUsers, "viewer")
	require.NoError(t, err)
	var user model.User
	require.NoError(t, doc.Decode(&user))
	assert.True(t, user.IsOnline)
}

func TestSuggestCaptionDegradesWhenDisabled(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "GET", "/suggest/caption?topic=camping", "viewer", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Caption string `json:"caption"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Empty(t, res.Caption)
}
