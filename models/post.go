package models

import (
	"time"
)

type Post struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Heading     string    `gorm:"not null" json:"heading"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatorName string    `json:"creatorname"`
	CreatorID   uint      `gorm:"not null;index" json:"creatorId"`
	Image       string    `json:"image"`
}

// PostView is the read projection served by the forum: the post plus the
// computed comment count, the author's photo and the ids of users who liked it.
type PostView struct {
	Post
	CommentsCount int64   `gorm:"->" json:"commentsCount"`
	ProfilePhoto  *string `gorm:"->" json:"profilePhoto,omitempty"`
	LikeUserIDs   []uint  `gorm:"-" json:"likes"`
}
