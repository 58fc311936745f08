package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/pkg/errors"
)

// MessageInput is the intent to send a group chat message. Text may
// accompany a sticker; media is uploaded before the record is written.
type MessageInput struct {
	Text       string
	StickerUrl string
	Media      *MediaUpload
}

func (d *Dispatcher) SendMessage(ctx context.Context, viewerId string, in MessageInput) (string, error) {
	if in.Text == "" && in.StickerUrl == "" && in.Media == nil {
		return "", ErrEmptyMessage
	}

	fields := map[string]interface{}{
		"senderId":  viewerId,
		"timestamp": store.ServerTimestamp{},
	}
	if in.Text != "" {
		fields["text"] = in.Text
	}
	if in.StickerUrl != "" {
		fields["stickerUrl"] = in.StickerUrl
	}

	if in.Media != nil {
		path := fmt.Sprintf("chat/%s/%d_%s", viewerId, time.Now().UnixMilli(), in.Media.FileName)
		url, err := d.blobs.Upload(ctx, path, in.Media.Data, in.Media.ContentType)
		if err != nil {
			return "", errors.Wrap(err, "upload chat media")
		}
		if in.Media.isVideo() {
			fields["videoUrl"] = url
		} else {
			fields["imageUrl"] = url
		}
	}

	id, err := d.docs.Create(ctx, store.CollectionGroupChat, fields)
	if err != nil {
		return "", errors.Wrap(err, "write chat message")
	}
	return id, nil
}

// DeleteMessage removes a chat message, an admin moderation action.
func (d *Dispatcher) DeleteMessage(ctx context.Context, messageId string) error {
	return errors.Wrap(d.docs.Delete(ctx, store.CollectionGroupChat, messageId), "delete message "+messageId)
}
