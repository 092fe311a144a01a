package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	AdminRoleAdmin      = "admin"
	AdminRoleSuperAdmin = "superadmin"
)

type Admin struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	FullName    string         `gorm:"not null" json:"fullName"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        string         `gorm:"not null;default:admin" json:"role"`
	Permissions pq.StringArray `gorm:"type:text" json:"permissions"`
}

func (a *Admin) Can(permission string) bool {
	if a.Role == AdminRoleSuperAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

const (
	PermissionManageUsers  = "manage_users"
	PermissionManagePosts  = "manage_posts"
	PermissionManageTrends = "manage_trends"
)

// DefaultAdminPermissions is granted to admins created without an explicit list.
var DefaultAdminPermissions = []string{PermissionManageUsers, PermissionManagePosts, PermissionManageTrends}
