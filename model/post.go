package model

import "time"

type PostType string

const (
	PostTypeStandard PostType = "post"
	PostTypeReel     PostType = "reel"
)

/*

Post is a piece of content published to the shared feed.

Id: primary key, document id in the posts collection
AuthorId: foreign key into the users collection
Author: resolved author, populated by hydration only. A post whose author
	cannot be resolved from the current users snapshot is excluded from every
	derived view, never rendered partially.
ImageUrl/VideoUrl: optional media download references
Caption: plain text caption
Likes/Reposts: counters
Comments: ordered comment tree, each comment may own nested replies of
	unbounded depth
Timestamp: server-assigned creation time
OriginalPostId/OriginalPost: set iff this post is a repost of another post
TaggedUserIds/TaggedUsers: members tagged in the caption
Type: "post" or short-form video "reel"

*/
type Post struct {
	Id             string     `json:"id"`
	AuthorId       string     `json:"authorId"`
	Author         *User      `json:"author,omitempty"`
	ImageUrl       string     `json:"imageUrl,omitempty"`
	VideoUrl       string     `json:"videoUrl,omitempty"`
	Caption        string     `json:"caption"`
	Likes          int        `json:"likes"`
	Reposts        int        `json:"reposts"`
	Comments       []*Comment `json:"comments"`
	Timestamp      time.Time  `json:"timestamp"`
	OriginalPostId string     `json:"originalPostId,omitempty"`
	OriginalPost   *Post      `json:"originalPost,omitempty"`
	TaggedUserIds  []string   `json:"taggedUserIds,omitempty"`
	TaggedUsers    []*User    `json:"taggedUsers,omitempty"`
	Type           PostType   `json:"type,omitempty"`
}

// Kind normalizes the variant discriminator. Records written before reels
// existed carry no type at all and are treated as standard posts.
func (p *Post) Kind() PostType {
	if p.Type == PostTypeReel {
		return PostTypeReel
	}
	return PostTypeStandard
}
