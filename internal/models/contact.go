package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contact is a person, optionally linked to a Company.
type Contact struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Civility  string `gorm:"size:6" json:"civility,omitempty"`
	Firstname string `gorm:"size:100" json:"firstname,omitempty"`
	Lastname  string `gorm:"size:100;not null" json:"lastname"`
	Poste     string `gorm:"size:100" json:"poste,omitempty"`

	Address     string `gorm:"size:500" json:"address,omitempty"`
	Zip         string `gorm:"size:25" json:"zip,omitempty"`
	Town        string `gorm:"size:100" json:"town,omitempty"`
	State       string `gorm:"size:100" json:"state,omitempty"`
	StateCode   string `gorm:"size:10" json:"state_code,omitempty"`
	Country     string `gorm:"size:100" json:"country,omitempty"`
	CountryCode string `gorm:"size:3" json:"country_code,omitempty"`

	PhonePro    string `gorm:"size:50" json:"phone_pro,omitempty"`
	PhonePerso  string `gorm:"size:50" json:"phone_perso,omitempty"`
	PhoneMobile string `gorm:"size:50" json:"phone_mobile,omitempty"`
	Fax         string `gorm:"size:50" json:"fax,omitempty"`
	Email       string `gorm:"size:255" json:"email,omitempty"`

	NotePublic  string     `gorm:"type:text" json:"note_public,omitempty"`
	NotePrivate string     `gorm:"type:text" json:"note_private,omitempty"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	Photo       string     `gorm:"size:255" json:"photo,omitempty"`

	CompanyID *uint    `gorm:"index" json:"company_id,omitempty"`
	Company   *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	Options datatypes.JSONMap `json:"options,omitempty"`
	Entity  uint              `gorm:"index;not null;default:1" json:"entity"`
}

// FullName returns "Firstname Lastname".
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.Firstname + " " + c.Lastname)
}
