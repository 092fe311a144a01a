package models

import (
	"time"
)

// Like is one user's like on one post. The unique index makes the toggle safe
// against a concurrent double like.
type Like struct {
	LikeID    uint      `gorm:"column:like_id;primaryKey;autoIncrement"`
	PostID    uint      `gorm:"column:post_id;not null;uniqueIndex:idx_post_likes_post_user"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_post_likes_post_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Like) TableName() string {
	return "post_likes"
}
