package models

import "time"

// Object types an archive can be attached to.
const (
	ObjectThirdparty = "thirdparty"
	ObjectContact    = "contact"
)

// Archive is a generated document, or a file uploaded directly against a
// third party or contact. TemplateID is nil for direct uploads.
type Archive struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Ref       string    `gorm:"uniqueIndex;size:128;not null" json:"ref"`

	TemplateID *uint     `gorm:"index" json:"template_id,omitempty"`
	Template   *Template `gorm:"foreignKey:TemplateID" json:"-"`

	ObjectType string `gorm:"size:32;not null;index:idx_archive_object" json:"object_type"`
	ObjectID   uint   `gorm:"not null;index:idx_archive_object" json:"object_id"`

	FileName string `gorm:"size:255;not null" json:"filename"`
	FilePath string `gorm:"size:1024;not null" json:"-"`
	FileType string `gorm:"size:16" json:"filetype"`
	FileSize int64  `json:"filesize"`

	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	TagFilter   *string   `gorm:"size:255" json:"tag_filter,omitempty"`
	GeneratedAt time.Time `gorm:"index" json:"generated_at"`
	CreatedByID *uint     `json:"created_by_id,omitempty"`
	Entity      uint      `gorm:"index;not null;default:1" json:"entity"`
}

// ArchiveRow is an archive joined with the label and tag of its template,
// as shown in the archive list of an object.
type ArchiveRow struct {
	Archive
	TemplateLabel   string `json:"template_label,omitempty"`
	TemplateTag     string `json:"template_tag,omitempty"`
	TemplateGroupID uint   `json:"template_group_id,omitempty"`
	Available       bool   `gorm:"-" json:"available"`
}

// ValidObjectType reports whether t is an object type archives attach to.
func ValidObjectType(t string) bool {
	return t == ObjectThirdparty || t == ObjectContact
}
