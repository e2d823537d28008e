package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("label", "  ", v)
	Required("ref", "TPL-1", v)
	if v["label"] != "required" {
		t.Errorf("label violation = %q", v["label"])
	}
	if _, ok := v["ref"]; ok {
		t.Error("ref should be valid")
	}
	if v.Empty() {
		t.Error("expected violations")
	}
}

func TestPositiveUintAndOneOf(t *testing.T) {
	v := Violations{}
	PositiveUint("group", 0, v)
	OneOf("object_type", "invoice", []string{"thirdparty", "contact"}, v)
	OneOf("kind", "contact", []string{"thirdparty", "contact"}, v)
	if v["group"] != "must_be_positive" || v["object_type"] != "invalid" {
		t.Errorf("unexpected violations %v", v)
	}
	if _, ok := v["kind"]; ok {
		t.Error("kind should be valid")
	}
}

func TestAllowedExtension(t *testing.T) {
	allowed := []string{"odt", "docx"}
	tests := []struct {
		name string
		ok   bool
	}{
		{"letter.ODT", true},
		{"letter.docx", true},
		{"letter.exe", false},
		{"noext", false},
	}
	for _, tt := range tests {
		v := Violations{}
		AllowedExtension("file", tt.name, allowed, v)
		if v.Empty() != tt.ok {
			t.Errorf("AllowedExtension(%q) ok = %v, want %v", tt.name, v.Empty(), tt.ok)
		}
	}
}
