package hydrate

import (
	"sort"
	"time"

	"github.com/MarcoSafwat16/AMScout/model"
)

// Collections is the raw per-collection state the resolver reads. Users is a
// dependency of every other collection's hydration, so a resolve pass runs
// whenever any of these snapshots changes.
type Collections struct {
	Users         map[string]model.User
	Posts         map[string]model.Post
	Products      map[string]model.Product
	Stories       map[string]model.UserStories
	Messages      map[string]model.Message
	Notifications map[string]model.Notification
	Config        model.AppConfig
}

/*

Result is one fully hydrated, policy-filtered view of the cache.

Hydration replaces every foreign-key field with the resolved User (or list
of Users). Top-level records whose author/seller/sender is absent from the
current users snapshot are dropped entirely, never rendered partially; they
reappear on the next users snapshot that contains the referenced id.

Comments are the exception to the top-level drop rule: a post survives its
orphaned comments. A comment whose own author is unresolved is dropped
together with its reply subtree (replies would dangle without their thread
context), which keeps every rendered comment fully attributed. This is the
documented policy for the upstream's undefined orphan-comment handling.

Posts carry their base recency order (newest first); viewer-specific feed
ordering is applied downstream. Messages are oldest first, notifications
newest first. Story groups are filtered to the trailing 24 hour window at
ResolvedAt and dropped when empty.

*/
type Result struct {
	Users         map[string]model.User
	Posts         []model.Post
	Products      []model.Product
	Stories       []model.UserStories
	Messages      []model.Message
	Notifications []model.Notification
	Config        model.AppConfig
	ResolvedAt    time.Time
}

// Resolve computes a Result from the raw collections. It is a pure function
// of its inputs and shares no mutable state with the cache: every hydrated
// record is a copy.
func Resolve(c Collections, now time.Time) *Result {
	return &Result{
		Users:         c.Users,
		Posts:         resolvePosts(c),
		Products:      resolveProducts(c),
		Stories:       resolveStories(c, now),
		Messages:      resolveMessages(c),
		Notifications: resolveNotifications(c),
		Config:        c.Config,
		ResolvedAt:    now,
	}
}

func resolvePosts(c Collections) []model.Post {
	posts := []model.Post{}
	for _, raw := range c.Posts {
		post, ok := resolvePost(raw, c, map[string]bool{})
		if !ok {
			continue
		}
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Timestamp.Equal(posts[j].Timestamp) {
			return posts[i].Timestamp.After(posts[j].Timestamp)
		}
		return posts[i].Id < posts[j].Id
	})
	return posts
}

// resolvePost hydrates a single post. The second return is false when the
// author is unresolved. seen guards repost chains against reference cycles.
func resolvePost(raw model.Post, c Collections, seen map[string]bool) (model.Post, bool) {
	author, ok := c.Users[raw.AuthorId]
	if !ok {
		return model.Post{}, false
	}

	post := raw
	post.Author = &author
	post.Comments = resolveComments(raw.Comments, c.Users)
	post.TaggedUsers = resolveUserList(raw.TaggedUserIds, c.Users)
	post.OriginalPost = nil

	if raw.OriginalPostId != "" && !seen[raw.Id] {
		seen[raw.Id] = true
		if original, ok := c.Posts[raw.OriginalPostId]; ok {
			if hydrated, ok := resolvePost(original, c, seen); ok {
				post.OriginalPost = &hydrated
			}
		}
	}
	return post, true
}

// resolveComments hydrates a comment tree recursively. Unresolved authors
// drop the comment and its subtree; sibling order is preserved.
func resolveComments(comments []*model.Comment, users map[string]model.User) []*model.Comment {
	if comments == nil {
		return nil
	}
	res := []*model.Comment{}
	for _, raw := range comments {
		user, ok := users[raw.UserId]
		if !ok {
			continue
		}
		comment := *raw
		comment.User = &user
		comment.Replies = resolveComments(raw.Replies, users)
		res = append(res, &comment)
	}
	return res
}

func resolveUserList(ids []string, users map[string]model.User) []*model.User {
	if len(ids) == 0 {
		return nil
	}
	res := []*model.User{}
	for _, id := range ids {
		if user, ok := users[id]; ok {
			u := user
			res = append(res, &u)
		}
	}
	return res
}

func resolveProducts(c Collections) []model.Product {
	products := []model.Product{}
	for _, raw := range c.Products {
		seller, ok := c.Users[raw.SellerId]
		if !ok {
			continue
		}
		product := raw
		product.Seller = &seller
		products = append(products, product)
	}
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].Id < products[j].Id
	})
	return products
}

func resolveMessages(c Collections) []model.Message {
	messages := []model.Message{}
	for _, raw := range c.Messages {
		sender, ok := c.Users[raw.SenderId]
		if !ok {
			continue
		}
		message := raw
		message.Sender = &sender
		messages = append(messages, message)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		if !messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		}
		return messages[i].Id < messages[j].Id
	})
	return messages
}

// resolveStories applies both the owner drop policy and the expiry window.
// Expiry is evaluated against now on every pass, so a story ages out on the
// next recompute even without a new remote event.
func resolveStories(c Collections, now time.Time) []model.UserStories {
	groups := []model.UserStories{}
	for _, raw := range c.Stories {
		owner, ok := c.Users[raw.UserId]
		if !ok {
			continue
		}

		active := []model.Story{}
		for _, story := range raw.Stories {
			if story.Expired(now) {
				continue
			}
			s := story
			s.Comments = resolveComments(story.Comments, c.Users)
			s.Reactions = resolveReactions(story.Reactions, c.Users)
			active = append(active, s)
		}
		if len(active) == 0 {
			continue
		}

		group := raw
		group.User = &owner
		group.Stories = active
		groups = append(groups, group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].UserId < groups[j].UserId
	})
	return groups
}

func resolveReactions(reactions []model.Reaction, users map[string]model.User) []model.Reaction {
	if reactions == nil {
		return nil
	}
	res := []model.Reaction{}
	for _, raw := range reactions {
		user, ok := users[raw.UserId]
		if !ok {
			continue
		}
		reaction := raw
		reaction.User = &user
		res = append(res, reaction)
	}
	return res
}

func resolveNotifications(c Collections) []model.Notification {
	notifications := []model.Notification{}
	for _, raw := range c.Notifications {
		actor, ok := c.Users[raw.UserId]
		if !ok {
			continue
		}
		notification := raw
		notification.User = &actor
		notification.Post = nil
		if raw.PostId != "" {
			if post, ok := c.Posts[raw.PostId]; ok {
				if hydrated, ok := resolvePost(post, c, map[string]bool{}); ok {
					notification.Post = &hydrated
				}
			}
		}
		notifications = append(notifications, notification)
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		if !notifications[i].Timestamp.Equal(notifications[j].Timestamp) {
			return notifications[i].Timestamp.After(notifications[j].Timestamp)
		}
		return notifications[i].Id < notifications[j].Id
	})
	return notifications
}
