package model

import "time"

const (
	StoryContentImage = "image"
	StoryContentVideo = "video"
)

// StoryTTL is the rolling window a story item stays visible for after
// creation.
const StoryTTL = 24 * time.Hour

/*

Story is a single ephemeral item inside a member's story group.

Id: unique id within the owning group
ContentUrl: media download reference
ContentType: "image" or "video"
Duration: on-screen duration in seconds
Timestamp: server-assigned creation time, used by the expiry filter
Comments: optional comment list
Reactions: optional reactions, at most one per reacting user

*/
type Story struct {
	Id          string     `json:"id"`
	ContentUrl  string     `json:"contentUrl"`
	ContentType string     `json:"contentType"`
	Duration    int        `json:"duration"`
	Timestamp   time.Time  `json:"timestamp"`
	Comments    []*Comment `json:"comments,omitempty"`
	Reactions   []Reaction `json:"reactions,omitempty"`
}

// Reaction is a single user's reaction to a story, deduplicated per user.
type Reaction struct {
	UserId string `json:"userId"`
	User   *User  `json:"user,omitempty"`
	Type   string `json:"type"`
}

/*

UserStories groups a member's active stories.

UserId: foreign key into the users collection, also the document id of the
	group in the userStories collection
User: resolved owner, populated by hydration only
Stories: ordered story items, source order preserved
HasUnseen: presentation-only view state, never persisted

A group whose every story item has aged out of StoryTTL is dropped entirely.

*/
type UserStories struct {
	UserId    string  `json:"userId"`
	User      *User   `json:"user,omitempty"`
	Stories   []Story `json:"stories"`
	HasUnseen bool    `json:"hasUnseen"`
}

// Expired returns true iff the story item is older than StoryTTL at the
// provided resolution time.
func (s *Story) Expired(now time.Time) bool {
	return s.Timestamp.Before(now.Add(-StoryTTL))
}

// HasReactionFrom returns true iff userId already reacted to the story.
func (s *Story) HasReactionFrom(userId string) bool {
	for _, r := range s.Reactions {
		if r.UserId == userId {
			return true
		}
	}
	return false
}
