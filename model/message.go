package model

import "time"

/*

Message is a single entry in the troop group chat.

Id: primary key, document id in the groupChat collection
SenderId: foreign key into the users collection
Sender: resolved sender, populated by hydration only. A message whose sender
	cannot be resolved is excluded from the chat projection.
Text/ImageUrl/VideoUrl/StickerUrl: payloads. Exactly one primary payload is
	expected, though text may accompany a sticker.
Timestamp: server-assigned creation time, chat is projected oldest first

*/
type Message struct {
	Id         string    `json:"id"`
	SenderId   string    `json:"senderId"`
	Sender     *User     `json:"sender,omitempty"`
	Text       string    `json:"text,omitempty"`
	ImageUrl   string    `json:"imageUrl,omitempty"`
	VideoUrl   string    `json:"videoUrl,omitempty"`
	StickerUrl string    `json:"stickerUrl,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
