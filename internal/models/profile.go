package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile groups permissions. A user has at most one profile.
type Profile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string         `gorm:"size:500" json:"description,omitempty"`
	IsSystem    bool           `gorm:"default:false" json:"is_system"`
	Permissions []Permission   `gorm:"many2many:profile_permissions;" json:"permissions,omitempty"`
	Users       []User         `gorm:"foreignKey:ProfileID" json:"users,omitempty"`
}

// Permission grants one action on one module, e.g. archive:create.
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Module      string    `gorm:"size:50;not null;uniqueIndex:idx_perm_module_action" json:"module"`
	Action      string    `gorm:"size:50;not null;uniqueIndex:idx_perm_module_action" json:"action"`
	Description string    `gorm:"size:200" json:"description,omitempty"`
}

// Code returns the permission in "module:action" format for matching.
func (p Permission) Code() string {
	return p.Module + ":" + p.Action
}
