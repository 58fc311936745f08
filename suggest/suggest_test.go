package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSuggester(handler http.HandlerFunc) (*HTTPSuggester, *httptest.Server) {
	server := httptest.NewServer(handler)
	s := &HTTPSuggester{
		endpoint: server.URL,
		apiKey:   "test-key",
		client:   &http.Client{Timeout: time.Second},
	}
	return s, server
}

func TestGenerateCaption(t *testing.T) {
	s, server := newTestSuggester(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var in generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Contains(t, in.Prompt, "camping")

		json.NewEncoder(w).Encode(generateResponse{Text: "Under the stars #camping"})
	})
	defer server.Close()

	caption, err := s.GenerateCaption(context.Background(), "camping")
	require.NoError(t, err)
	assert.Equal(t, "Under the stars #camping", caption)
}

func TestGenerateReplySuggestions(t *testing.T) {
	s, server := newTestSuggester(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Suggestions: []string{"sure!", "on my way", "haha"}})
	})
	defer server.Close()

	replies, err := s.GenerateReplySuggestions(context.Background(), "who's coming to the meetup?")
	require.NoError(t, err)
	assert.Len(t, replies, 3)
}

func TestGenerateFailsOnServerError(t *testing.T) {
	s, server := newTestSuggester(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := s.GenerateCaption(context.Background(), "camping")
	assert.Error(t, err)
}

func TestUnconfiguredSuggesterFails(t *testing.T) {
	s := &HTTPSuggester{client: http.DefaultClient}
	_, err := s.GenerateCaption(context.Background(), "camping")
	assert.Error(t, err)
}

type failingSuggester struct{}

func (failingSuggester) GenerateCaption(ctx context.Context, topic string) (string, error) {
	return "", errors.New("down")
}

func (failingSuggester) GenerateReplySuggestions(ctx context.Context, history string) ([]string, error) {
	return nil, errors.New("down")
}

func TestOrEmptyHelpersDegrade(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "", CaptionOrEmpty(ctx, failingSuggester{}, "camping"))
	assert.Equal(t, []string{}, RepliesOrEmpty(ctx, failingSuggester{}, "hi"))

	// The disabled suggester also yields empty, never an error surface.
	assert.Equal(t, "", CaptionOrEmpty(ctx, Disabled{}, "camping"))
	assert.Equal(t, []string{}, RepliesOrEmpty(ctx, Disabled{}, "hi"))
}
