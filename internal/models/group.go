package models

import "time"

// UserGroup owns templates; its members may generate documents from them.
type UserGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;size:180;not null" json:"name"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	Entity    uint      `gorm:"index;not null;default:1" json:"entity"`
	Users     []User    `gorm:"many2many:user_group_members;" json:"users,omitempty"`
}

// Category is a tag third parties can be filed under. Its label doubles as
// the archive folder name when generating from it.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Label     string    `gorm:"size:180;not null" json:"label"`
	Type      string    `gorm:"size:32;index" json:"type"` // customer, supplier, contact
	Entity    uint      `gorm:"index;not null;default:1" json:"entity"`
	Companies []Company `gorm:"many2many:company_categories;" json:"-"`
}
