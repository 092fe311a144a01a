package models

import (
	"time"
)

var TrendCategories = []string{"market", "technology", "weather", "policy", "crop"}

type Trend struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `json:"image"`
	Category    string    `gorm:"not null;type:varchar(20);index" json:"category"`
}
