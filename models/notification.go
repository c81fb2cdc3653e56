package models

import "time"

// Notification types
const (
	NotificationLike       = "like"
	NotificationComment    = "comment"
	NotificationFollow     = "follow"
	NotificationStoryShare = "story_share"
)

// Notification is a social-interaction notice (like/comment/follow/share),
// distinct from the safety Alert model. Created by the backend on social
// events; the only local mutations are mark-as-read and delete.
type Notification struct {
	NotificationID string    `json:"id" bson:"notificationid"`
	UserID         string    `json:"userId" bson:"userid"`
	ActorID        string    `json:"actorId" bson:"actorid"`
	ActorName      string    `json:"actorName" bson:"actorname"`
	ActorAvatar    string    `json:"actorAvatar,omitempty" bson:"actoravatar,omitempty"`
	Type           string    `json:"type" bson:"type"`
	Content        string    `json:"content" bson:"content"`
	StoryID        string    `json:"storyId,omitempty" bson:"storyid,omitempty"`
	StoryTitle     string    `json:"storyTitle,omitempty" bson:"storytitle,omitempty"`
	IsRead         bool      `json:"isRead" bson:"is_read"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}
