package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/storage"
)

// ArchiveService persists generated and uploaded documents.
type ArchiveService struct {
	db     *gorm.DB
	store  *storage.Store
	mirror storage.Mirror
	now    func() time.Time
}

func NewArchiveService(db *gorm.DB, store *storage.Store, mirror storage.Mirror) *ArchiveService {
	if mirror == nil {
		mirror = storage.NopMirror{}
	}
	return &ArchiveService{db: db, store: store, mirror: mirror, now: time.Now}
}

// NewArchiveRef builds <KIN>_<id>_<YYYYmmddHHMMSS>_<4 hex>, KIN being the
// first three letters of the object type in upper case.
func NewArchiveRef(objectType string, objectID uint, now time.Time) string {
	prefix := objectType
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("%s_%d_%s_%s", strings.ToUpper(prefix), objectID, now.Format("20060102150405"), suffix)
}

// Create inserts a in its own transaction. An empty Ref is generated.
func (s *ArchiveService) Create(ctx context.Context, a *models.Archive) error {
	if !models.ValidObjectType(a.ObjectType) {
		return fmt.Errorf("%w: %q", ErrUnknownObjectType, a.ObjectType)
	}
	if a.Ref == "" {
		a.Ref = NewArchiveRef(a.ObjectType, a.ObjectID, s.now())
	}
	a.Ref = storage.SanitizeFileName(a.Ref)
	if a.GeneratedAt.IsZero() {
		a.GeneratedAt = s.now()
	}
	if a.Entity == 0 {
		a.Entity = 1
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(a).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchivePersist, err)
	}
	return nil
}

// Fetch loads an archive by id, or by ref when id is zero.
func (s *ArchiveService) Fetch(ctx context.Context, id uint, ref string) (*models.Archive, error) {
	q := s.db.WithContext(ctx)
	switch {
	case id != 0:
		q = q.Where("id = ?", id)
	case ref != "":
		q = q.Where("ref = ?", ref)
	default:
		return nil, ErrRecordNotFound
	}
	var a models.Archive
	if err := q.First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &a, nil
}

// ListByObject returns the archives of an object with the label and tag of
// their template, ordered by template tag then newest first. A non nil
// categoryID restricts the list to that category.
func (s *ArchiveService) ListByObject(ctx context.Context, objectType string, objectID uint, categoryID *uint) ([]models.ArchiveRow, error) {
	q := s.db.WithContext(ctx).
		Table("archives").
		Select("archives.*, templates.label AS template_label, templates.tag AS template_tag, templates.user_group_id AS template_group_id").
		Joins("LEFT JOIN templates ON templates.id = archives.template_id").
		Where("archives.object_type = ? AND archives.object_id = ?", objectType, objectID)
	if categoryID != nil && *categoryID > 0 {
		q = q.Where("archives.category_id = ?", *categoryID)
	}
	var rows []models.ArchiveRow
	err := q.Order("COALESCE(templates.tag, '') ASC").
		Order("archives.generated_at DESC").
		Order("archives.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	for i := range rows {
		rows[i].Available = storage.Exists(rows[i].FilePath)
	}
	return rows, nil
}

// Delete removes the record, then the file and its mirrored copy. A file
// that is already gone is not an error.
func (s *ArchiveService) Delete(ctx context.Context, a *models.Archive) error {
	res := s.db.WithContext(ctx).Delete(&models.Archive{}, a.ID)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	log := logger.FromContext(ctx)
	if err := storage.Remove(a.FilePath); err != nil {
		log.Warn("archive file removal failed", "path", a.FilePath, "error", err)
	}
	if key, err := s.store.Key(a.FilePath); err == nil {
		if err := s.mirror.Delete(ctx, key); err != nil {
			log.Warn("mirror delete failed", "key", key, "error", err)
		}
	}
	log.Info("archive deleted", "archive_id", a.ID, "ref", a.Ref)
	return nil
}

// ArchiveUpload is a file attached to an object without a template.
type ArchiveUpload struct {
	ObjectType string
	ObjectID   uint
	CategoryID *uint
	TagFilter  string
	FileName   string
	Content    io.Reader
	UserID     uint
	Entity     uint
}

// Upload stores the file in the object's archive directory and records it.
func (s *ArchiveService) Upload(ctx context.Context, in ArchiveUpload) (*models.Archive, error) {
	if !models.ValidObjectType(in.ObjectType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObjectType, in.ObjectType)
	}
	ext := models.FileExtension(in.FileName)
	if !models.IsAllowedFileType(ext) {
		return nil, fmt.Errorf("%w: %q", ErrExtensionNotAllowed, in.FileName)
	}

	dir := s.store.ArchiveDir(in.ObjectType, in.ObjectID, in.TagFilter)
	if err := storage.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryCreate, err)
	}
	name := storage.SanitizeFileName(in.FileName)
	path := filepath.Join(dir, name)
	size, err := storage.MoveUpload(in.Content, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	a := &models.Archive{
		ObjectType: in.ObjectType,
		ObjectID:   in.ObjectID,
		FileName:   name,
		FilePath:   path,
		FileType:   ext,
		FileSize:   size,
		CategoryID: in.CategoryID,
		Entity:     in.Entity,
	}
	if in.TagFilter != "" {
		tag := in.TagFilter
		a.TagFilter = &tag
	}
	if in.UserID != 0 {
		uid := in.UserID
		a.CreatedByID = &uid
	}
	if err := s.Create(ctx, a); err != nil {
		if rmErr := storage.Remove(path); rmErr != nil {
			logger.FromContext(ctx).Error("archive upload cleanup failed", "path", path, "error", rmErr)
		}
		return nil, err
	}
	s.mirrorFile(ctx, a.FilePath)
	return a, nil
}

// mirrorFile copies path to the object store. Failures are logged only.
func (s *ArchiveService) mirrorFile(ctx context.Context, path string) {
	key, err := s.store.Key(path)
	if err != nil {
		return
	}
	ext := models.FileExtension(path)
	if err := s.mirror.Put(ctx, key, path, models.MimeTypeFor(ext)); err != nil {
		logger.FromContext(ctx).Warn("mirror upload failed", "key", key, "error", err)
	}
}
