package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/diewo77/go-multidoc/internal/container"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/storage"
	"github.com/diewo77/go-multidoc/internal/substitution"
)

var genTime = time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC)

func (f *fixture) generator(rewrite bool) *GeneratorService {
	g := NewGeneratorService(f.archives, f.store, GeneratorOptions{ContainerRewrite: rewrite})
	g.now = func() time.Time { return genTime }
	return g
}

func (f *fixture) request(t *testing.T, tpl *models.Template, e substitution.Entity) Request {
	t.Helper()
	org, err := f.entities.Organization(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	return Request{
		Template: tpl,
		Entity:   e,
		Context:  substitution.Context{Organization: org, User: &f.user, Lang: "en", Entity: 1, ServerLocation: time.UTC},
	}
}

func (f *fixture) templateFile(t *testing.T, label, fileName, tag string, members map[string]string) *models.Template {
	t.Helper()
	path := filepath.Join(f.store.TemplateDir(f.group.ID), fileName)
	if members != nil {
		writeZip(t, path, members)
	}
	tpl := &models.Template{
		Ref: "TPL-" + label, Label: label, Tag: tag, UserGroupID: f.group.ID, Active: true,
		FileName: fileName, FilePath: path, FileType: models.FileExtension(fileName),
	}
	if err := f.db.Create(tpl).Error; err != nil {
		t.Fatal(err)
	}
	return tpl
}

const odtContent = `<office:document-content><office:body><office:text>` +
	`<text:p>{company_name}, {company_town}</text:p><text:p>{mycompany_name} / {user_fullname}</text:p>` +
	`<text:p>{unknown_key}</text:p></office:text></office:body></office:document-content>`

func odtMembers() map[string]string {
	return map[string]string{
		"mimetype":              "application/vnd.oasis.opendocument.text",
		"content.xml":           odtContent,
		"styles.xml":            `<office:document-styles><text:p>{mycompany_name}</text:p></office:document-styles>`,
		"Pictures/logo.png":     "\x89PNG{company_name}",
		"META-INF/manifest.xml": "<manifest/>",
	}
}

func TestGenerateODT(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Offer", "offer.odt", "Contracts", odtMembers())
	company := substitution.CompanyEntity{Company: &f.company}

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, company))
	if !res.OK() || res.Err != nil {
		t.Fatalf("Generate: code=%d err=%v", res.Code, res.Err)
	}
	if res.Code != int(res.ArchiveID) || len(res.Errors) != 0 {
		t.Errorf("result = %+v", res)
	}

	a, err := f.archives.Fetch(context.Background(), res.ArchiveID, "")
	if err != nil {
		t.Fatal(err)
	}
	wantDir := f.store.ArchiveDir(models.ObjectThirdparty, f.company.ID, "Contracts")
	if a.FileName != "ACME _ Co_Offer_20240601_093015.odt" || filepath.Dir(a.FilePath) != wantDir {
		t.Errorf("output = %s in %s", a.FileName, filepath.Dir(a.FilePath))
	}
	if a.FileType != "odt" || a.TemplateID == nil || *a.TemplateID != tpl.ID || a.TagFilter == nil || *a.TagFilter != "Contracts" {
		t.Errorf("archive = %+v", a)
	}
	if a.CreatedByID == nil || *a.CreatedByID != f.user.ID || !a.GeneratedAt.Equal(genTime) {
		t.Errorf("archive audit fields = %+v", a)
	}
	if fi, _ := os.Stat(a.FilePath); fi == nil || fi.Size() != a.FileSize {
		t.Errorf("FileSize = %d", a.FileSize)
	}

	content, err := container.ReadMember(a.FilePath, "content.xml")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<text:p>ACME &amp; Co, Lyon</text:p>", "<text:p>My Org / Jane Doe</text:p>", "{unknown_key}"} {
		if !strings.Contains(content, want) {
			t.Errorf("content.xml misses %q:\n%s", want, content)
		}
	}
	styles, _ := container.ReadMember(a.FilePath, "styles.xml")
	if !strings.Contains(styles, "My Org") {
		t.Errorf("styles.xml = %s", styles)
	}
	if pic, _ := container.ReadMember(a.FilePath, "Pictures/logo.png"); pic != "\x89PNG{company_name}" {
		t.Errorf("untargeted member changed: %q", pic)
	}
	if len(f.mirror.puts) != 1 {
		t.Errorf("mirror puts = %v", f.mirror.puts)
	}
}

func TestGenerateLowercasesExtension(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Offer", "Offer.ODT", "", odtMembers())

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if !res.OK() {
		t.Fatalf("Generate: %+v", res)
	}
	if res.Archive.FileName != "ACME _ Co_Offer_20240601_093015.odt" || res.Archive.FileType != "odt" {
		t.Errorf("archive = %s (%s)", res.Archive.FileName, res.Archive.FileType)
	}
}

func TestGenerateMissingTemplateFile(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Ghost", "ghost.odt", "", nil)

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if res.Code != CodeTemplateFileMissing || !errors.Is(res.Err, ErrTemplateFileMissing) {
		t.Fatalf("result = %+v", res)
	}
	if res.Error != "Template file not found" {
		t.Errorf("Error = %q", res.Error)
	}
	var n int64
	f.db.Model(&models.Archive{}).Count(&n)
	if n != 0 {
		t.Errorf("archives = %d, want 0", n)
	}
}

func TestGenerateDirectoryCreateFailure(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Offer", "offer.odt", "", odtMembers())
	// a plain file where the archives directory should be
	if err := os.WriteFile(filepath.Join(f.store.Root, "archives"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if res.Code != CodeDirectoryCreate || !errors.Is(res.Err, ErrDirectoryCreate) {
		t.Fatalf("result = %+v", res)
	}
}

func TestGenerateContactUsesTagFilterAndName(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Welcome", "welcome.odt", "Default", odtMembers())
	contact, err := f.entities.Contact(context.Background(), f.contact.ID)
	if err != nil {
		t.Fatal(err)
	}
	req := f.request(t, tpl, substitution.ContactEntity{Contact: contact})
	req.TagFilter = "Clients VIP"

	res := f.generator(true).Generate(context.Background(), req)
	if !res.OK() {
		t.Fatalf("Generate: %+v", res)
	}
	a := res.Archive
	if a.FileName != "Smith_John_Welcome_20240601_093015.odt" {
		t.Errorf("FileName = %q", a.FileName)
	}
	if filepath.Dir(a.FilePath) != f.store.ArchiveDir(models.ObjectContact, f.contact.ID, "Clients VIP") {
		t.Errorf("dir = %q", filepath.Dir(a.FilePath))
	}
	// linked company keys resolve for contacts
	if content, _ := container.ReadMember(a.FilePath, "content.xml"); !strings.Contains(content, "ACME &amp; Co") {
		t.Errorf("content.xml = %s", content)
	}
}

func TestGenerateSplitDOCX(t *testing.T) {
	f := setup(t)
	doc := `<w:document><w:body><w:p>` +
		`<w:r><w:t>Dear {company_</w:t></w:r><w:proofErr w:type="spellStart"/>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>name}</w:t></w:r>` +
		`</w:p></w:body></w:document>`
	tpl := f.templateFile(t, "Letter", "letter.docx", "", map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   doc,
		"word/footer1.xml":    `<w:ftr><w:p><w:r><w:t>{mycompany_name}</w:t></w:r></w:p></w:ftr>`,
	})

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if !res.OK() {
		t.Fatalf("Generate: %+v", res)
	}
	body, _ := container.ReadMember(res.Archive.FilePath, "word/document.xml")
	if !strings.Contains(body, "ACME &amp; Co") || strings.Contains(body, "{company_") {
		t.Errorf("document.xml = %s", body)
	}
	footer, _ := container.ReadMember(res.Archive.FilePath, "word/footer1.xml")
	if !strings.Contains(footer, "My Org") {
		t.Errorf("footer1.xml = %s", footer)
	}
}

func TestGenerateXLSX(t *testing.T) {
	f := setup(t)
	path := filepath.Join(f.store.TemplateDir(f.group.ID), "sheet.xlsx")
	os.MkdirAll(filepath.Dir(path), 0o755)
	x := excelize.NewFile()
	x.SetCellValue("Sheet1", "A1", "{company_name}")
	x.SetCellValue("Sheet1", "B2", "Town: {company_town}")
	if err := x.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	x.Close()
	tpl := &models.Template{Ref: "TPL-X", Label: "Sheet", UserGroupID: f.group.ID, FileName: "sheet.xlsx", FilePath: path, FileType: "xlsx", Active: true}
	f.db.Create(tpl)

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if !res.OK() {
		t.Fatalf("Generate: %+v", res)
	}
	out, err := excelize.OpenFile(res.Archive.FilePath)
	if err != nil {
		t.Fatalf("open generated xlsx: %v", err)
	}
	defer out.Close()
	if v, _ := out.GetCellValue("Sheet1", "A1"); v != "ACME & Co" {
		t.Errorf("A1 = %q", v)
	}
	if v, _ := out.GetCellValue("Sheet1", "B2"); v != "Town: Lyon" {
		t.Errorf("B2 = %q", v)
	}
}

func TestGenerateCopiesOtherFormats(t *testing.T) {
	f := setup(t)
	path := filepath.Join(f.store.TemplateDir(f.group.ID), "terms.pdf")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("%PDF-1.4 {company_name}"), 0o644)
	tpl := &models.Template{Ref: "TPL-P", Label: "Terms", UserGroupID: f.group.ID, FileName: "terms.pdf", FilePath: path, FileType: "pdf", Active: true}
	f.db.Create(tpl)

	req := f.request(t, tpl, substitution.CompanyEntity{Company: &f.company})
	req.ConvertToPDF = true // ignored for non odt templates
	res := f.generator(true).Generate(context.Background(), req)
	if !res.OK() || len(res.Errors) != 0 {
		t.Fatalf("Generate: %+v", res)
	}
	got, _ := os.ReadFile(res.Archive.FilePath)
	if string(got) != "%PDF-1.4 {company_name}" || res.Archive.FileType != "pdf" {
		t.Errorf("copy = %q (%s)", got, res.Archive.FileType)
	}
}

func TestGeneratePDFFlagIgnoredForNonODT(t *testing.T) {
	tests := []struct {
		fileName string
		member   string
		members  map[string]string
	}{
		{"letter.docx", "word/document.xml", map[string]string{
			"[Content_Types].xml": "<Types/>",
			"word/document.xml":   `<w:document><w:body><w:p><w:r><w:t>{company_name}</w:t></w:r></w:p></w:body></w:document>`,
		}},
		{"sheet.ods", "content.xml", map[string]string{
			"mimetype":    "application/vnd.oasis.opendocument.spreadsheet",
			"content.xml": `<office:document-content><table:table-cell><text:p>{company_name}</text:p></table:table-cell></office:document-content>`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			f := setup(t)
			tpl := f.templateFile(t, strings.TrimSuffix(tt.fileName, filepath.Ext(tt.fileName)), tt.fileName, "", tt.members)

			req := f.request(t, tpl, substitution.CompanyEntity{Company: &f.company})
			req.ConvertToPDF = true
			res := f.generator(true).Generate(context.Background(), req)
			if !res.OK() || len(res.Errors) != 0 {
				t.Fatalf("Generate: %+v", res)
			}
			a := res.Archive
			if a.FileType != tpl.FileType || filepath.Ext(a.FileName) != filepath.Ext(tt.fileName) {
				t.Errorf("archive = %s (%s), want type %s", a.FileName, a.FileType, tpl.FileType)
			}
			pdfs, _ := filepath.Glob(filepath.Join(filepath.Dir(a.FilePath), "*.pdf"))
			if len(pdfs) != 0 {
				t.Errorf("unexpected pdf output %v", pdfs)
			}
			content, err := container.ReadMember(a.FilePath, tt.member)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(content, "ACME &amp; Co") {
				t.Errorf("%s not substituted:\n%s", tt.member, content)
			}
		})
	}
}

func TestGenerateRewriteDisabledCopiesVerbatim(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Offer", "offer.odt", "", odtMembers())

	res := f.generator(false).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if !res.OK() {
		t.Fatalf("Generate: %+v", res)
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Document processing unavailable, copied without substitution" {
		t.Errorf("Errors = %v", res.Errors)
	}
	src, _ := os.ReadFile(tpl.FilePath)
	dst, _ := os.ReadFile(res.Archive.FilePath)
	if !bytes.Equal(src, dst) {
		t.Error("output must be a verbatim copy")
	}
}

func TestGenerateBrokenContainer(t *testing.T) {
	f := setup(t)
	path := filepath.Join(f.store.TemplateDir(f.group.ID), "broken.odt")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("not a zip"), 0o644)
	tpl := &models.Template{Ref: "TPL-B", Label: "Broken", UserGroupID: f.group.ID, FileName: "broken.odt", FilePath: path, FileType: "odt", Active: true}
	f.db.Create(tpl)

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if res.Code != CodeContainerOpen || !errors.Is(res.Err, ErrContainerOpen) {
		t.Fatalf("result = %+v", res)
	}
	entries, _ := os.ReadDir(f.store.ArchiveDir(models.ObjectThirdparty, f.company.ID, ""))
	if len(entries) != 0 {
		t.Errorf("output left behind: %v", entries)
	}
}

func TestGenerateODTToPDF(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Offer", "offer.odt", "", odtMembers())
	req := f.request(t, tpl, substitution.CompanyEntity{Company: &f.company})
	req.ConvertToPDF = true

	res := f.generator(true).Generate(context.Background(), req)
	if !res.OK() || len(res.Errors) != 0 {
		t.Fatalf("Generate: %+v", res)
	}
	a := res.Archive
	if a.FileType != "pdf" || a.FileName != "ACME _ Co_Offer_20240601_093015.pdf" {
		t.Errorf("archive = %s (%s)", a.FileName, a.FileType)
	}
	b, err := os.ReadFile(a.FilePath)
	if err != nil || !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("pdf output: %v", err)
	}
	if storage.Exists(strings.TrimSuffix(a.FilePath, ".pdf") + ".odt") {
		t.Error("intermediate odt must be removed")
	}
}

func TestGenerateODTToPDFFailureKeepsODT(t *testing.T) {
	f := setup(t)
	members := odtMembers()
	delete(members, "content.xml")
	tpl := f.templateFile(t, "Offer", "offer.odt", "", members)
	req := f.request(t, tpl, substitution.CompanyEntity{Company: &f.company})
	req.ConvertToPDF = true

	res := f.generator(true).Generate(context.Background(), req)
	if !res.OK() {
		t.Fatalf("Generate: %+v", res)
	}
	if res.Archive.FileType != "odt" || !storage.Exists(res.Archive.FilePath) {
		t.Errorf("archive = %+v", res.Archive)
	}
	if len(res.Errors) != 1 || res.Errors[0] != "PDF conversion failed" {
		t.Errorf("Errors = %v", res.Errors)
	}
}

func TestGeneratePersistFailureRemovesOutput(t *testing.T) {
	f := setup(t)
	tpl := f.templateFile(t, "Offer", "offer.odt", "", odtMembers())
	if err := f.db.Migrator().DropTable(&models.Archive{}); err != nil {
		t.Fatal(err)
	}

	res := f.generator(true).Generate(context.Background(), f.request(t, tpl, substitution.CompanyEntity{Company: &f.company}))
	if res.Code != CodeArchivePersist || !errors.Is(res.Err, ErrArchivePersist) {
		t.Fatalf("result = %+v", res)
	}
	entries, _ := os.ReadDir(f.store.ArchiveDir(models.ObjectThirdparty, f.company.ID, ""))
	if len(entries) != 0 {
		t.Errorf("output left behind: %v", entries)
	}
}

func TestOutputFileName(t *testing.T) {
	c := &models.Contact{Lastname: "O'Neil", Firstname: ""}
	got := OutputFileName(substitution.ContactEntity{Contact: c}, "Letter/Draft", genTime, "docx")
	if got != "O_Neil_Letter_Draft_20240601_093015.docx" {
		t.Errorf("OutputFileName = %q", got)
	}
	anon := OutputFileName(substitution.CompanyEntity{Company: &models.Company{}}, "", genTime, "odt")
	if anon != "20240601_093015.odt" {
		t.Errorf("OutputFileName(empty) = %q", anon)
	}
}
