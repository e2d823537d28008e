// Package validation collects field violations for form and upload input.
package validation

import (
	"path/filepath"
	"slices"
	"strings"
)

// Violations maps a field name to a violation code (translated by i18n).
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required flags blank values.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// PositiveUint flags zero ids.
func PositiveUint(field string, val uint, v Violations) {
	if val == 0 {
		v[field] = "must_be_positive"
	}
}

// OneOf flags values outside allowed.
func OneOf(field, value string, allowed []string, v Violations) {
	if !slices.Contains(allowed, value) {
		v[field] = "invalid"
	}
}

// AllowedExtension flags file names whose lowercased extension is not in
// allowed (given without the dot).
func AllowedExtension(field, filename string, allowed []string, v Violations) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" || !slices.Contains(allowed, ext) {
		v[field] = "extension_not_allowed"
	}
}
