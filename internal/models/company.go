package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Company is a third party (customer or supplier) documents are generated for.
type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name      string `gorm:"size:255;not null" json:"name"`
	NameAlias string `gorm:"size:255" json:"name_alias,omitempty"`

	// Address
	Address     string `gorm:"size:500" json:"address,omitempty"`
	Zip         string `gorm:"size:25" json:"zip,omitempty"`
	Town        string `gorm:"size:100" json:"town,omitempty"`
	State       string `gorm:"size:100" json:"state,omitempty"`
	StateCode   string `gorm:"size:10" json:"state_code,omitempty"`
	Country     string `gorm:"size:100" json:"country,omitempty"`
	CountryCode string `gorm:"size:3" json:"country_code,omitempty"`

	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Fax     string `gorm:"size:50" json:"fax,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	URL     string `gorm:"size:255" json:"url,omitempty"`
	Barcode string `gorm:"size:180" json:"barcode,omitempty"`

	// Codes
	CustomerCode            string `gorm:"size:24" json:"customer_code,omitempty"`
	SupplierCode            string `gorm:"size:24" json:"supplier_code,omitempty"`
	CustomerAccountancyCode string `gorm:"size:24" json:"customer_accountancy_code,omitempty"`
	SupplierAccountancyCode string `gorm:"size:24" json:"supplier_accountancy_code,omitempty"`

	// Legal identifiers (SIREN, SIRET, NAF, RCS...)
	IDProf1          string `gorm:"size:128" json:"idprof1,omitempty"`
	IDProf2          string `gorm:"size:128" json:"idprof2,omitempty"`
	IDProf3          string `gorm:"size:128" json:"idprof3,omitempty"`
	IDProf4          string `gorm:"size:128" json:"idprof4,omitempty"`
	IDProf5          string `gorm:"size:128" json:"idprof5,omitempty"`
	IDProf6          string `gorm:"size:128" json:"idprof6,omitempty"`
	VATNumber        string `gorm:"size:20" json:"vat_number,omitempty"`
	Capital          string `gorm:"size:100" json:"capital,omitempty"`
	JuridicalStatus  string `gorm:"size:255" json:"juridical_status,omitempty"`
	OutstandingLimit string `gorm:"size:50" json:"outstanding_limit,omitempty"`

	NotePublic  string `gorm:"type:text" json:"note_public,omitempty"`
	NotePrivate string `gorm:"type:text" json:"note_private,omitempty"`

	BankIBAN string `gorm:"size:64" json:"bank_iban,omitempty"`
	BankBIC  string `gorm:"size:16" json:"bank_bic,omitempty"`
	Logo     string `gorm:"size:255" json:"logo,omitempty"`

	// Options holds the extra fields, keyed "options_<code>" or "<code>".
	Options datatypes.JSONMap `json:"options,omitempty"`

	Categories []Category `gorm:"many2many:company_categories;" json:"categories,omitempty"`
	Entity     uint       `gorm:"index;not null;default:1" json:"entity"`
}
