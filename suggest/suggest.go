package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/MarcoSafwat16/AMScout/utils/log"
	"github.com/pkg/errors"
)

// Suggester is the advisory caption/reply helper boundary. It is purely
// assistive: callers must treat any failure as "no suggestions" and never
// block posting, commenting or chat on it.
type Suggester interface {
	GenerateCaption(ctx context.Context, topic string) (string, error)
	GenerateReplySuggestions(ctx context.Context, conversationHistory string) ([]string, error)
}

// HTTPSuggester talks to the hosted generation endpoint. Configuration
// comes from AI_ENDPOINT and AI_API_KEY; with no key configured it degrades
// to the disabled behavior.
type HTTPSuggester struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPSuggester() *HTTPSuggester {
	return &HTTPSuggester{
		endpoint: os.Getenv("AI_ENDPOINT"),
		apiKey:   os.Getenv("AI_API_KEY"),
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count,omitempty"`
}

type generateResponse struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
}

func (s *HTTPSuggester) GenerateCaption(ctx context.Context, topic string) (string, error) {
	res, err := s.generate(ctx, generateRequest{
		Prompt: "Generate a short, engaging social media post caption about \"" + topic + "\". Include relevant hashtags.",
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (s *HTTPSuggester) GenerateReplySuggestions(ctx context.Context, conversationHistory string) ([]string, error) {
	res, err := s.generate(ctx, generateRequest{
		Prompt: "Suggest three short casual replies to this group chat conversation:\n" + conversationHistory,
		Count:  3,
	})
	if err != nil {
		return nil, err
	}
	return res.Suggestions, nil
}

func (s *HTTPSuggester) generate(ctx context.Context, in generateRequest) (*generateResponse, error) {
	if s.apiKey == "" || s.endpoint == "" {
		return nil, errors.New("suggestion service not configured")
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "encode suggestion request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build suggestion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call suggestion service")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("suggestion service returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode suggestion response")
	}
	return &out, nil
}

// Disabled is the no-op Suggester used when the service is not configured.
type Disabled struct{}

func (Disabled) GenerateCaption(ctx context.Context, topic string) (string, error) {
	return "", nil
}

func (Disabled) GenerateReplySuggestions(ctx context.Context, conversationHistory string) ([]string, error) {
	return nil, nil
}

// CaptionOrEmpty degrades a caption failure to an empty suggestion.
func CaptionOrEmpty(ctx context.Context, s Suggester, topic string) string {
	text, err := s.GenerateCaption(ctx, topic)
	if err != nil {
		log.Log.Warn("caption suggestion unavailable: ", err)
		return ""
	}
	return text
}

// RepliesOrEmpty degrades a reply-suggestion failure to an empty list.
func RepliesOrEmpty(ctx context.Context, s Suggester, history string) []string {
	suggestions, err := s.GenerateReplySuggestions(ctx, history)
	if err != nil {
		log.Log.Warn("reply suggestions unavailable: ", err)
		return []string{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions
}
