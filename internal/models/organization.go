package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the company running the application ("my company").
// One row per entity.
type Organization struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Entity uint `gorm:"uniqueIndex;not null" json:"entity"`

	// Company information
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255" json:"email,omitempty"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`
	Fax   string `gorm:"size:50" json:"fax,omitempty"`
	Web   string `gorm:"size:255" json:"web,omitempty"`

	// Address
	Address     string `gorm:"size:500" json:"address,omitempty"`
	Zip         string `gorm:"size:25" json:"zip,omitempty"`
	Town        string `gorm:"size:100" json:"town,omitempty"`
	State       string `gorm:"size:100" json:"state,omitempty"`
	Country     string `gorm:"size:100" json:"country,omitempty"`
	CountryCode string `gorm:"size:3" json:"country_code,omitempty"`

	// Tax & Legal information
	IDProf1   string `gorm:"size:128" json:"idprof1,omitempty"`
	IDProf2   string `gorm:"size:128" json:"idprof2,omitempty"`
	IDProf3   string `gorm:"size:128" json:"idprof3,omitempty"`
	IDProf4   string `gorm:"size:128" json:"idprof4,omitempty"`
	IDProf5   string `gorm:"size:128" json:"idprof5,omitempty"`
	IDProf6   string `gorm:"size:128" json:"idprof6,omitempty"`
	VATNumber string `gorm:"size:20" json:"vat_number,omitempty"`
	Capital   string `gorm:"size:100" json:"capital,omitempty"`

	NotePublic string `gorm:"type:text" json:"note_public,omitempty"`
	BankIBAN   string `gorm:"size:64" json:"bank_iban,omitempty"`
	BankBIC    string `gorm:"size:16" json:"bank_bic,omitempty"`

	// Branding
	Logo string `gorm:"size:255" json:"logo,omitempty"`
}
