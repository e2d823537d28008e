package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/go-multidoc/internal/container"
	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/pdfconv"
	"github.com/diewo77/go-multidoc/internal/runmerge"
	"github.com/diewo77/go-multidoc/internal/storage"
	"github.com/diewo77/go-multidoc/internal/substitution"
)

// GeneratorOptions configures document generation.
type GeneratorOptions struct {
	// ContainerRewrite enables placeholder substitution inside ODT, ODS,
	// XLSX and DOCX files. When false they are copied as is.
	ContainerRewrite bool
	PDF              pdfconv.Options
}

// GeneratorService produces archives from templates.
type GeneratorService struct {
	archives *ArchiveService
	store    *storage.Store
	opts     GeneratorOptions
	now      func() time.Time
}

func NewGeneratorService(archives *ArchiveService, store *storage.Store, opts GeneratorOptions) *GeneratorService {
	return &GeneratorService{archives: archives, store: store, opts: opts, now: time.Now}
}

// Request asks for one document.
type Request struct {
	Template *models.Template
	Entity   substitution.Entity
	Context  substitution.Context
	// TagFilter names the archive subfolder. Template.Tag is used when empty.
	TagFilter    string
	CategoryID   *uint
	ConvertToPDF bool
}

// Result of a generation. Code is the archive id on success and one of the
// negative Code constants on failure. Error and Errors are localized.
type Result struct {
	ArchiveID uint
	Archive   *models.Archive
	Code      int
	Error     string
	Errors    []string
	Err       error
}

// OK reports whether an archive was created.
func (r Result) OK() bool { return r.Code > 0 }

type format struct {
	members   []string
	lineBreak string
	transform func(string) string
}

var formats = map[string]format{
	"odt":  {members: container.ODTMembers, lineBreak: container.ODTLineBreak},
	"ods":  {members: container.ODSMembers},
	"xlsx": {members: container.XLSXMembers},
	"docx": {members: container.DOCXMembers, transform: runmerge.Normalize},
}

// Generate fills the template for the entity, stores the output under the
// entity's archive directory and records it. The output file never
// outlives a failed generation.
func (s *GeneratorService) Generate(ctx context.Context, req Request) Result {
	t, e := req.Template, req.Entity
	c := req.Context
	if c.Now.IsZero() {
		c.Now = s.now()
	}
	lang := c.Lang
	log := logger.FromContext(ctx).With("template_id", t.ID, "object_type", e.Kind(), "object_id", e.ID())

	fail := func(code int, err error, args ...any) Result {
		log.Error("document generation failed", "code", code, "error", err)
		return Result{Code: code, Error: Message(lang, err, args...), Err: err}
	}

	if !storage.Exists(t.FilePath) {
		return fail(CodeTemplateFileMissing, fmt.Errorf("%w: %s", ErrTemplateFileMissing, t.FilePath))
	}

	tag := req.TagFilter
	if tag == "" {
		tag = t.Tag
	}
	dir := s.store.ArchiveDir(e.Kind(), e.ID(), tag)
	if err := storage.MkdirAll(dir); err != nil {
		return fail(CodeDirectoryCreate, fmt.Errorf("%w: %s: %v", ErrDirectoryCreate, dir, err))
	}

	ext := models.FileExtension(t.FileName)
	if ext == "" {
		ext = strings.ToLower(t.FileType)
	}
	out := filepath.Join(dir, OutputFileName(e, t.Label, c.Now, ext))

	var warnings []string
	values := substitution.Resolve(e, c)
	f, rewritable := formats[ext]
	switch {
	case rewritable && s.opts.ContainerRewrite:
		_, err := container.Rewrite(t.FilePath, out, values, f.members, container.Options{
			LineBreak: f.lineBreak,
			Transform: f.transform,
		})
		if errors.Is(err, container.ErrCopy) {
			return fail(CodeCopyFailed, fmt.Errorf("%w: %v", ErrCopyFailed, err))
		}
		if err != nil {
			s.discard(log, out)
			return fail(CodeContainerOpen, fmt.Errorf("%w: %v", ErrContainerOpen, err))
		}
	case rewritable:
		log.Warn("container rewriting disabled, copying template as is")
		warnings = append(warnings, Message(lang, ErrContainerCapabilityUnavailable))
		fallthrough
	default:
		if err := storage.Copy(t.FilePath, out); err != nil {
			return fail(CodeCopyFailed, fmt.Errorf("%w: %v", ErrCopyFailed, err))
		}
	}

	if req.ConvertToPDF && ext == "odt" {
		res := pdfconv.Convert(out, s.opts.PDF)
		if res.Success {
			s.discard(log, out)
			out, ext = res.OutputPath, "pdf"
		} else {
			log.Warn("pdf conversion failed, keeping odt", "error", res.Err)
			warnings = append(warnings, Message(lang, ErrPdfConversionFailed))
		}
	}

	a := &models.Archive{
		TemplateID:  &t.ID,
		ObjectType:  e.Kind(),
		ObjectID:    e.ID(),
		FileName:    filepath.Base(out),
		FilePath:    out,
		FileType:    ext,
		CategoryID:  req.CategoryID,
		GeneratedAt: c.Now,
		Entity:      c.Entity,
	}
	if fi, err := os.Stat(out); err == nil {
		a.FileSize = fi.Size()
	}
	if tag != "" {
		a.TagFilter = &tag
	}
	if c.User != nil && c.User.ID != 0 {
		uid := c.User.ID
		a.CreatedByID = &uid
	}
	if err := s.archives.Create(ctx, a); err != nil {
		s.discard(log, out)
		res := fail(CodeArchivePersist, err)
		res.Errors = warnings
		return res
	}
	s.archives.mirrorFile(ctx, out)

	log.Info("document generated", "archive_id", a.ID, "ref", a.Ref, "file", a.FileName)
	return Result{ArchiveID: a.ID, Archive: a, Code: int(a.ID), Errors: warnings}
}

// discard removes a file produced by a failed or superseded step.
func (s *GeneratorService) discard(log *slog.Logger, path string) {
	if err := storage.Remove(path); err != nil {
		log.Error("output cleanup failed", "path", path, "error", err)
	}
}

// OutputFileName is <entity parts>_<label>_<YYYYmmdd_HHMMSS>.<ext>, each
// part sanitized and empty parts skipped.
func OutputFileName(e substitution.Entity, label string, now time.Time, ext string) string {
	var parts []string
	for _, p := range append(e.DisplayNameParts(), label) {
		if p = storage.SanitizeFileName(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, now.Format("20060102_150405"))
	return strings.Join(parts, "_") + "." + ext
}
