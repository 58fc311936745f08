package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

const defaultStoryDurationSec = 7

// AddStory uploads the story image and appends it to the viewer's story
// group, creating the group document if it does not exist yet.
func (d *Dispatcher) AddStory(ctx context.Context, viewerId string, imageDataURL string) error {
	path := fmt.Sprintf("stories/%s/%d.jpg", viewerId, time.Now().UnixMilli())
	url, err := d.blobs.UploadDataURL(ctx, path, imageDataURL)
	if err != nil {
		return errors.Wrap(err, "upload story media")
	}

	story := map[string]interface{}{
		"id":          "s_" + uuid.New().String(),
		"contentUrl":  url,
		"contentType": model.StoryContentImage,
		"duration":    defaultStoryDurationSec,
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
	}

	err = d.docs.Set(ctx, store.CollectionUserStories, viewerId, map[string]interface{}{
		"stories": store.ArrayUnion{Values: []interface{}{story}},
	})
	return errors.Wrap(err, "write story")
}

// AddStoryReaction records the viewer's reaction on a story, at most one
// per user. Point awards for the story owner are a separate operation
// (AwardPoints) with its own failure mode, not a transaction with this
// write.
func (d *Dispatcher) AddStoryReaction(ctx context.Context, viewer model.User, ownerUserId string, storyId string, reactionType string) error {
	stories, err := d.readStories(ctx, ownerUserId)
	if err != nil {
		return err
	}

	updated := false
	for i := range stories {
		if stories[i].Id != storyId {
			continue
		}
		if stories[i].HasReactionFrom(viewer.Id) {
			return nil
		}
		stories[i].Reactions = append(stories[i].Reactions, model.Reaction{
			UserId: viewer.Id,
			Type:   reactionType,
		})
		updated = true
		break
	}
	if !updated {
		return errors.New("story not found: " + storyId)
	}

	return d.writeStories(ctx, ownerUserId, stories)
}

// AddStoryComment appends a comment to a story item.
func (d *Dispatcher) AddStoryComment(ctx context.Context, viewer model.User, ownerUserId string, storyId string, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}

	stories, err := d.readStories(ctx, ownerUserId)
	if err != nil {
		return err
	}

	updated := false
	for i := range stories {
		if stories[i].Id != storyId {
			continue
		}
		stories[i].Comments = append(stories[i].Comments, &model.Comment{
			Id:     "c_" + uuid.New().String(),
			UserId: viewer.Id,
			Text:   text,
		})
		updated = true
		break
	}
	if !updated {
		return errors.New("story not found: " + storyId)
	}

	return d.writeStories(ctx, ownerUserId, stories)
}

// readStories returns a deep copy of the owner's story items, so in-place
// edits never alias records previously handed to subscribers.
func (d *Dispatcher) readStories(ctx context.Context, ownerUserId string) ([]model.Story, error) {
	doc, err := d.docs.Get(ctx, store.CollectionUserStories, ownerUserId)
	if err != nil {
		return nil, errors.Wrap(err, "read stories of "+ownerUserId)
	}
	var group model.UserStories
	if err := doc.Decode(&group); err != nil {
		return nil, err
	}

	stories := []model.Story{}
	if err := copier.CopyWithOption(&stories, group.Stories, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "copy stories")
	}
	return stories, nil
}

func (d *Dispatcher) writeStories(ctx context.Context, ownerUserId string, stories []model.Story) error {
	err := d.docs.Update(ctx, store.CollectionUserStories, ownerUserId, map[string]interface{}{
		"stories": stories,
	})
	return errors.Wrap(err, "write stories of "+ownerUserId)
}
