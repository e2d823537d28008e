package models

import "testing"

func TestFileExtension(t *testing.T) {
	tests := map[string]string{
		"letter.ODT":      "odt",
		"report.v2.docx":  "docx",
		"noext":           "",
		"trailing.":       "",
		"/a/b/sheet.XLSX": "xlsx",
	}
	for in, want := range tests {
		if got := FileExtension(in); got != want {
			t.Errorf("FileExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsAllowedFileType(t *testing.T) {
	for _, ext := range []string{"odt", "ODS", "xls", "xlsx", "doc", "docx", "pdf", "rtf"} {
		if !IsAllowedFileType(ext) {
			t.Errorf("%s should be allowed", ext)
		}
	}
	for _, ext := range []string{"exe", "html", ""} {
		if IsAllowedFileType(ext) {
			t.Errorf("%q should not be allowed", ext)
		}
	}
}

func TestMimeTypeFor(t *testing.T) {
	if got := MimeTypeFor("odt"); got != "application/vnd.oasis.opendocument.text" {
		t.Errorf("odt mime = %q", got)
	}
	if got := MimeTypeFor("DOCX"); got != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Errorf("docx mime = %q", got)
	}
	if got := MimeTypeFor("zip"); got != "application/octet-stream" {
		t.Errorf("unknown mime = %q", got)
	}
}

func TestFullNames(t *testing.T) {
	c := &Contact{Firstname: "Ada", Lastname: "Lovelace"}
	if c.FullName() != "Ada Lovelace" {
		t.Errorf("contact FullName = %q", c.FullName())
	}
	c.Firstname = ""
	if c.FullName() != "Lovelace" {
		t.Errorf("contact FullName = %q", c.FullName())
	}

	u := &User{Login: "jdoe"}
	if u.FullName() != "jdoe" {
		t.Errorf("user FullName without names = %q", u.FullName())
	}
	u.Firstname, u.Lastname = "John", "Doe"
	if u.FullName() != "John Doe" {
		t.Errorf("user FullName = %q", u.FullName())
	}
}

func TestUserGroupIDs(t *testing.T) {
	u := &User{Groups: []UserGroup{{ID: 3}, {ID: 7}}}
	ids := u.GroupIDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("GroupIDs() = %v", ids)
	}
}

func TestValidObjectType(t *testing.T) {
	if !ValidObjectType(ObjectThirdparty) || !ValidObjectType(ObjectContact) {
		t.Error("thirdparty and contact are valid")
	}
	if ValidObjectType("invoice") {
		t.Error("invoice is not an archive object type")
	}
}
