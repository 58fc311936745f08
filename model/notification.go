package model

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

/*

Notification records an action another member took that concerns the viewer.

Id: primary key, document id in the notifications collection
Type: like | comment | follow
UserId: foreign key of the acting member
User: resolved actor, populated by hydration only
PostId/Post: the related post for like and comment notifications
Timestamp: server-assigned creation time, projected newest first

*/
type Notification struct {
	Id        string           `json:"id"`
	Type      NotificationType `json:"type"`
	UserId    string           `json:"userId"`
	User      *User            `json:"user,omitempty"`
	PostId    string           `json:"postId,omitempty"`
	Post      *Post            `json:"post,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
