package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Validation failures, rejected before any write is attempted.
var (
	ErrEmptyPost      = errors.New("post requires a caption or attached media")
	ErrEmptyComment   = errors.New("comment text must not be empty")
	ErrEmptyMessage   = errors.New("message requires text, sticker or media")
	ErrSelfFollow     = errors.New("cannot follow yourself")
	ErrParentNotFound = errors.New("parent comment not found")
	ErrInvalidProduct = errors.New("product requires a name and a non-negative price")
	ErrReelNeedsVideo = errors.New("reel requires an attached video")
)

// UserDirectory returns the current users snapshot, used to pre-resolve
// tagged usernames before persisting. It always reads the live cache.
type UserDirectory func() map[string]model.User

// MediaUpload is a file attached to a post, reel or chat message.
type MediaUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (m *MediaUpload) isImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

func (m *MediaUpload) isVideo() bool {
	return strings.HasPrefix(m.ContentType, "video/")
}

// Dispatcher translates user intents into remote writes. It never mutates
// the entity cache: every write lands in the remote store and is reflected
// back through the subscription pipeline. Validation failures are returned
// as the Err* sentinels above; remote failures are wrapped transport
// errors, retryable by the caller.
type Dispatcher struct {
	docs  store.DocumentStore
	blobs store.BlobStore
	users UserDirectory

	// carts is per-viewer local view state, not entity data.
	mu    sync.Mutex
	carts map[string]*model.Cart
}

func NewDispatcher(docs store.DocumentStore, blobs store.BlobStore, users UserDirectory) *Dispatcher {
	return &Dispatcher{
		docs:  docs,
		blobs: blobs,
		users: users,
		carts: make(map[string]*model.Cart),
	}
}

// PostInput is the intent to create a post or reel.
type PostInput struct {
	Caption         string
	Media           *MediaUpload
	TaggedUsernames []string
	Type            model.PostType
}

// CreatePost validates, uploads the attached media if present, resolves
// tagged usernames to ids and writes the new post record. The author is
// implicitly the acting viewer.
func (d *Dispatcher) CreatePost(ctx context.Context, viewer model.User, in PostInput) (string, error) {
	caption := strings.TrimSpace(in.Caption)
	if caption == "" && in.Media == nil {
		return "", ErrEmptyPost
	}
	if in.Type == model.PostTypeReel && (in.Media == nil || !in.Media.isVideo()) {
		return "", ErrReelNeedsVideo
	}

	kind := in.Type
	if kind == "" {
		kind = model.PostTypeStandard
	}

	fields := map[string]interface{}{
		"authorId":      viewer.Id,
		"caption":       caption,
		"taggedUserIds": d.resolveTaggedUsernames(in.TaggedUsernames),
		"likes":         0,
		"reposts":       0,
		"comments":      []interface{}{},
		"timestamp":     store.ServerTimestamp{},
		"type":          string(kind),
	}

	if in.Media != nil {
		prefix := "posts"
		if kind == model.PostTypeReel {
			prefix = "reels"
		}
		path := fmt.Sprintf("%s/%s/%d_%s", prefix, viewer.Id, time.Now().UnixMilli(), in.Media.FileName)
		url, err := d.blobs.Upload(ctx, path, in.Media.Data, in.Media.ContentType)
		if err != nil {
			return "", errors.Wrap(err, "upload post media")
		}
		if in.Media.isVideo() {
			fields["videoUrl"] = url
		} else {
			fields["imageUrl"] = url
		}
	}

	id, err := d.docs.Create(ctx, store.CollectionPosts, fields)
	if err != nil {
		return "", errors.Wrap(err, "write post")
	}
	return id, nil
}

// resolveTaggedUsernames maps usernames to user ids against the current
// users snapshot. Unknown usernames are skipped rather than failing the
// post.
func (d *Dispatcher) resolveTaggedUsernames(usernames []string) []string {
	ids := []string{}
	if len(usernames) == 0 {
		return ids
	}
	byUsername := make(map[string]string)
	for _, u := range d.users() {
		byUsername[u.Username] = u.Id
	}
	for _, name := range usernames {
		if id, ok := byUsername[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// AddComment appends a comment to a post. With a parent id the comment is
// inserted as a child of that parent, located by id anywhere in the reply
// tree; without one it lands at the top level. The whole comment tree is
// written back, relying on the subscription echo for local visibility.
func (d *Dispatcher) AddComment(ctx context.Context, viewer model.User, postId string, parentId string, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}

	doc, err := d.docs.Get(ctx, store.CollectionPosts, postId)
	if err != nil {
		return errors.Wrap(err, "read post "+postId)
	}
	var post model.Post
	if err := doc.Decode(&post); err != nil {
		return err
	}

	comment := &model.Comment{
		Id:     "c_" + uuid.New().String(),
		UserId: viewer.Id,
		Text:   text,
		Likes:  0,
	}

	comments := post.Comments
	if parentId == "" {
		comments = append(append([]*model.Comment{}, comments...), comment)
	} else {
		var ok bool
		comments, ok = model.InsertReply(comments, parentId, comment)
		if !ok {
			return ErrParentNotFound
		}
	}

	err = d.docs.Update(ctx, store.CollectionPosts, postId, map[string]interface{}{
		"comments": comments,
	})
	return errors.Wrap(err, "write comments for post "+postId)
}

// DeletePost removes a post permanently.
func (d *Dispatcher) DeletePost(ctx context.Context, postId string) error {
	return errors.Wrap(d.docs.Delete(ctx, store.CollectionPosts, postId), "delete post "+postId)
}
