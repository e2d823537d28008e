package models

import (
	"slices"
	"strings"
	"time"
)

// AllowedFileTypes lists the extensions accepted for template upload.
var AllowedFileTypes = []string{"odt", "ods", "xls", "xlsx", "doc", "docx", "pdf", "rtf"}

var mimeTypes = map[string]string{
	"odt":  "application/vnd.oasis.opendocument.text",
	"ods":  "application/vnd.oasis.opendocument.spreadsheet",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
	"rtf":  "application/rtf",
}

// Template is an uploaded source document holding {placeholder} tags.
// It belongs to a user group and owns the file at FilePath.
type Template struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Ref         string    `gorm:"uniqueIndex;size:128;not null" json:"ref"`
	Label       string    `gorm:"size:255;not null" json:"label"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Tag         string    `gorm:"size:255;index" json:"tag,omitempty"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`

	UserGroupID uint       `gorm:"index;not null" json:"user_group_id"`
	UserGroup   *UserGroup `gorm:"foreignKey:UserGroupID" json:"user_group,omitempty"`

	FilePath string `gorm:"size:1024;not null" json:"-"`
	FileName string `gorm:"size:255;not null" json:"filename"`
	FileType string `gorm:"size:16;not null" json:"filetype"`
	FileSize int64  `json:"filesize"`
	MimeType string `gorm:"size:128" json:"mimetype"`
	Active   bool   `gorm:"index" json:"active"`

	CreatedByID *uint `json:"created_by_id,omitempty"`
	UpdatedByID *uint `json:"updated_by_id,omitempty"`
	Entity      uint  `gorm:"index;not null;default:1" json:"entity"`
}

// IsODT reports whether the template is an OpenDocument text.
func (t *Template) IsODT() bool { return t.FileType == "odt" }

// FileExtension returns the lowercased extension of name without the dot.
func FileExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// IsAllowedFileType reports whether ext may be uploaded as a template.
func IsAllowedFileType(ext string) bool {
	return slices.Contains(AllowedFileTypes, strings.ToLower(ext))
}

// MimeTypeFor returns the MIME type for ext, application/octet-stream when
// unknown.
func MimeTypeFor(ext string) string {
	if m, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return m
	}
	return "application/octet-stream"
}
