package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Login     string         `gorm:"uniqueIndex;size:50;not null" json:"login"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Firstname string         `gorm:"size:100" json:"firstname,omitempty"`
	Lastname  string         `gorm:"size:100" json:"lastname,omitempty"`
	Admin     bool           `json:"admin"`

	OfficePhone string `gorm:"size:50" json:"office_phone,omitempty"`
	Mobile      string `gorm:"size:50" json:"mobile,omitempty"`
	OfficeFax   string `gorm:"size:50" json:"office_fax,omitempty"`
	Address     string `gorm:"size:500" json:"address,omitempty"`
	Zip         string `gorm:"size:25" json:"zip,omitempty"`
	Town        string `gorm:"size:100" json:"town,omitempty"`
	Country     string `gorm:"size:100" json:"country,omitempty"`
	Signature   string `gorm:"type:text" json:"signature,omitempty"`
	Job         string `gorm:"size:128" json:"job,omitempty"`
	NotePublic  string `gorm:"type:text" json:"note_public,omitempty"`
	NotePrivate string `gorm:"type:text" json:"-"`

	Options datatypes.JSONMap `json:"options,omitempty"`
	Entity  uint              `gorm:"index;not null;default:1" json:"entity"`

	// ProfileID links the user to an authorization profile.
	// A nil value means the user has no profile assigned (no access).
	ProfileID *uint    `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`

	Groups []UserGroup `gorm:"many2many:user_group_members;" json:"groups,omitempty"`
}

// FullName returns "Firstname Lastname", or the login when both are empty.
func (u *User) FullName() string {
	if n := strings.TrimSpace(u.Firstname + " " + u.Lastname); n != "" {
		return n
	}
	return u.Login
}

// GroupIDs returns the ids of the loaded Groups.
func (u *User) GroupIDs() []uint {
	ids := make([]uint, len(u.Groups))
	for i, g := range u.Groups {
		ids[i] = g.ID
	}
	return ids
}
