package cache

import (
	"github.com/MarcoSafwat16/AMScout/hydrate"
	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/utils/log"
	"github.com/pkg/errors"
)

// Cache holds the latest known snapshot of every subscribed collection as a
// mapping from document id to raw record. Each Apply replaces the whole
// per-collection mapping with a freshly built one; existing maps are never
// mutated in place, so references handed out before an Apply stay valid.
//
// The cache has a single writer: the engine's event loop. Everything else
// only reads it through Collections().
type Cache struct {
	collections hydrate.Collections
}

func NewCache() *Cache {
	return &Cache{
		collections: hydrate.Collections{
			Users:         map[string]model.User{},
			Posts:         map[string]model.Post{},
			Products:      map[string]model.Product{},
			Stories:       map[string]model.UserStories{},
			Messages:      map[string]model.Message{},
			Notifications: map[string]model.Notification{},
		},
	}
}

// Collections returns the current raw snapshots. The returned maps must be
// treated as immutable.
func (c *Cache) Collections() hydrate.Collections {
	return c.collections
}

// Apply replaces the addressed collection's snapshot with the decoded
// documents. Individual documents that fail to decode are skipped and
// logged; they never poison the rest of the snapshot.
func (c *Cache) Apply(collection string, docs []store.Document) error {
	switch collection {
	case store.CollectionUsers:
		users := make(map[string]model.User, len(docs))
		for _, doc := range docs {
			var u model.User
			if !decode(doc, collection, &u) {
				continue
			}
			u.Id = doc.Id
			users[doc.Id] = u
		}
		c.collections.Users = users

	case store.CollectionPosts:
		posts := make(map[string]model.Post, len(docs))
		for _, doc := range docs {
			var p model.Post
			if !decode(doc, collection, &p) {
				continue
			}
			p.Id = doc.Id
			posts[doc.Id] = p
		}
		c.collections.Posts = posts

	case store.CollectionProducts:
		products := make(map[string]model.Product, len(docs))
		for _, doc := range docs {
			var p model.Product
			if !decode(doc, collection, &p) {
				continue
			}
			p.Id = doc.Id
			products[doc.Id] = p
		}
		c.collections.Products = products

	case store.CollectionUserStories:
		stories := make(map[string]model.UserStories, len(docs))
		for _, doc := range docs {
			var us model.UserStories
			if !decode(doc, collection, &us) {
				continue
			}
			// The story group's document id is the owning user's id.
			us.UserId = doc.Id
			stories[doc.Id] = us
		}
		c.collections.Stories = stories

	case store.CollectionGroupChat:
		messages := make(map[string]model.Message, len(docs))
		for _, doc := range docs {
			var m model.Message
			if !decode(doc, collection, &m) {
				continue
			}
			m.Id = doc.Id
			messages[doc.Id] = m
		}
		c.collections.Messages = messages

	case store.CollectionNotifications:
		notifications := make(map[string]model.Notification, len(docs))
		for _, doc := range docs {
			var n model.Notification
			if !decode(doc, collection, &n) {
				continue
			}
			n.Id = doc.Id
			notifications[doc.Id] = n
		}
		c.collections.Notifications = notifications

	case store.CollectionSettings:
		var config model.AppConfig
		for _, doc := range docs {
			if doc.Id != store.AppConfigDocId {
				continue
			}
			decode(doc, collection, &config)
		}
		c.collections.Config = config

	default:
		return errors.New("unknown collection: " + collection)
	}
	return nil
}

func decode(doc store.Document, collection string, out interface{}) bool {
	if err := doc.Decode(out); err != nil {
		log.Log.Warn("skip undecodable document ", collection, "/", doc.Id, ": ", err)
		return false
	}
	return true
}
