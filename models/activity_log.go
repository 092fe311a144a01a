package models

import (
	"time"
)

const (
	ActivityPostCreated    = "post_created"
	ActivityPostUpdated    = "post_updated"
	ActivityPostDeleted    = "post_deleted"
	ActivityPostLiked      = "post_liked"
	ActivityPostUnliked    = "post_unliked"
	ActivityCommentCreated = "comment_created"
	ActivityCommentUpdated = "comment_updated"
	ActivityCommentDeleted = "comment_deleted"
	ActivityUserDeleted    = "user_deleted"
	ActivityTrendCreated   = "trend_created"
	ActivityTrendUpdated   = "trend_updated"
	ActivityTrendDeleted   = "trend_deleted"
)

type ActivityLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	ActorID   uint      `gorm:"not null" json:"actorId"`
	ActorRole string    `gorm:"not null;type:varchar(10)" json:"actorRole"` // "user" or "admin"
	Activity  string    `gorm:"not null;type:varchar(50)" json:"activity"`
	SubjectID uint      `json:"subjectId"`
}
