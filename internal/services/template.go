package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/models"
	"github.com/diewo77/go-multidoc/internal/storage"
)

// NewTemplateRef builds TPL-<group>-<YYYYmmddHHMMSS>-<4 hex>.
func NewTemplateRef(groupID uint, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("TPL-%d-%s-%s", groupID, now.Format("20060102150405"), suffix)
}

// TemplateService manages templates and their files.
type TemplateService struct {
	db     *gorm.DB
	store  *storage.Store
	mirror storage.Mirror
	now    func() time.Time
}

func NewTemplateService(db *gorm.DB, store *storage.Store, mirror storage.Mirror) *TemplateService {
	if mirror == nil {
		mirror = storage.NopMirror{}
	}
	return &TemplateService{db: db, store: store, mirror: mirror, now: time.Now}
}

// TemplateUpload describes a template file sent by a user.
type TemplateUpload struct {
	GroupID     uint
	Label       string
	Description string
	Tag         string
	CategoryID  *uint
	FileName    string
	Content     io.Reader
	UserID      uint
	Entity      uint
}

// Upload stores the file under the group's template directory and creates
// the record. The file is removed again when the record cannot be saved.
func (s *TemplateService) Upload(ctx context.Context, in TemplateUpload) (*models.Template, error) {
	ext := models.FileExtension(in.FileName)
	if !models.IsAllowedFileType(ext) {
		return nil, fmt.Errorf("%w: %q", ErrExtensionNotAllowed, in.FileName)
	}
	if in.GroupID == 0 {
		return nil, ErrUserGroupRequired
	}

	dir := s.store.TemplateDir(in.GroupID)
	if err := storage.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryCreate, err)
	}
	name := storage.SanitizeFileName(in.FileName)
	path := filepath.Join(dir, name)
	size, err := storage.MoveUpload(in.Content, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = strings.TrimSuffix(in.FileName, filepath.Ext(in.FileName))
	}
	t := &models.Template{
		Ref:         NewTemplateRef(in.GroupID, s.now()),
		Label:       label,
		Description: in.Description,
		Tag:         strings.TrimSpace(in.Tag),
		CategoryID:  in.CategoryID,
		UserGroupID: in.GroupID,
		FilePath:    path,
		FileName:    name,
		FileType:    ext,
		FileSize:    size,
		MimeType:    models.MimeTypeFor(ext),
		Active:      true,
		Entity:      in.Entity,
	}
	if in.UserID != 0 {
		uid := in.UserID
		t.CreatedByID = &uid
	}
	if t.Entity == 0 {
		t.Entity = 1
	}

	if err := s.Create(ctx, t); err != nil {
		if rmErr := storage.Remove(path); rmErr != nil {
			logger.FromContext(ctx).Error("template upload cleanup failed", "path", path, "error", rmErr)
		}
		return nil, err
	}
	logger.FromContext(ctx).Info("template uploaded", "template_id", t.ID, "ref", t.Ref, "group_id", t.UserGroupID)
	return t, nil
}

// Create inserts t after checking its ref and group.
func (s *TemplateService) Create(ctx context.Context, t *models.Template) error {
	t.Ref = storage.SanitizeFileName(t.Ref)
	if t.Ref == "" {
		return ErrRefRequired
	}
	if t.UserGroupID == 0 {
		return ErrUserGroupRequired
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// Fetch loads a template by id, or by ref when id is zero.
func (s *TemplateService) Fetch(ctx context.Context, id uint, ref string) (*models.Template, error) {
	q := s.db.WithContext(ctx).Preload("UserGroup")
	switch {
	case id != 0:
		q = q.Where("id = ?", id)
	case ref != "":
		q = q.Where("ref = ?", ref)
	default:
		return nil, ErrRecordNotFound
	}
	var t models.Template
	if err := q.First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &t, nil
}

// ListByGroup returns the templates of a group ordered by tag then label.
func (s *TemplateService) ListByGroup(ctx context.Context, groupID uint, activeOnly bool) ([]models.Template, error) {
	q := s.db.WithContext(ctx).Where("user_group_id = ?", groupID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []models.Template
	if err := q.Order("tag ASC").Order("label ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return list, nil
}

// ListForUser returns the active templates of every group u belongs to.
// An admin without groups sees the templates of all groups.
func (s *TemplateService) ListForUser(ctx context.Context, u *models.User) ([]models.Template, error) {
	db := s.db.WithContext(ctx)

	var groupIDs []uint
	err := db.Table("user_group_members").Where("user_id = ?", u.ID).Pluck("user_group_id", &groupIDs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if len(groupIDs) == 0 && u.Admin {
		if err := db.Model(&models.UserGroup{}).Pluck("id", &groupIDs).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
		}
	}
	if len(groupIDs) == 0 {
		return []models.Template{}, nil
	}

	var list []models.Template
	err = db.Preload("UserGroup").
		Joins("LEFT JOIN user_groups ON user_groups.id = templates.user_group_id").
		Where("templates.user_group_id IN ?", groupIDs).
		Where("templates.active = ?", true).
		Order("templates.tag ASC").
		Order("user_groups.name ASC").
		Order("templates.label ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return list, nil
}

// Delete removes the template, the archives generated from it and, once
// the transaction is committed, their files. File removal is best effort.
func (s *TemplateService) Delete(ctx context.Context, t *models.Template) error {
	var archives []models.Archive
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", t.ID).Find(&archives).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", t.ID).Delete(&models.Archive{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Template{}, t.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, ErrRecordNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	log := logger.FromContext(ctx)
	s.removeFile(ctx, log, t.FilePath, false)
	for _, a := range archives {
		s.removeFile(ctx, log, a.FilePath, true)
	}
	log.Info("template deleted", "template_id", t.ID, "ref", t.Ref, "archives", len(archives))
	return nil
}

func (s *TemplateService) removeFile(ctx context.Context, log *slog.Logger, path string, mirrored bool) {
	if path == "" {
		return
	}
	if err := storage.Remove(path); err != nil {
		log.Warn("file removal failed", "path", path, "error", err)
	}
	if !mirrored {
		return
	}
	if key, err := s.store.Key(path); err == nil {
		if err := s.mirror.Delete(ctx, key); err != nil {
			log.Warn("mirror delete failed", "key", key, "error", err)
		}
	}
}
