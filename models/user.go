package models

import (
	"time"
)

type Address struct {
	Village  string `json:"village"`
	Taluka   string `json:"taluka"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Location is the "district, state" string used for weather lookups.
func (a Address) Location() string {
	switch {
	case a.District != "" && a.State != "":
		return a.District + ", " + a.State
	case a.District != "":
		return a.District
	case a.Village != "" && a.State != "":
		return a.Village + ", " + a.State
	default:
		return a.State
	}
}

type User struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Password          *string   `json:"-"`
	Address           Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	PreferredLanguage string    `gorm:"default:en" json:"preferredLanguage"`
	ProfilePhoto      string    `json:"profilePhoto"`
	Provider          string    `gorm:"default:email" json:"provider"`
	GoogleID          *string   `gorm:"uniqueIndex" json:"-"`
}
