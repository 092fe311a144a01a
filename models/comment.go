package models

import (
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	PostID      uint      `gorm:"not null;index" json:"postId"`
	CreatorName string    `json:"creatorname"`
	CreatorID   uint      `gorm:"not null;index" json:"creatorId"`
}
