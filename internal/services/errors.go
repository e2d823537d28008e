package services

import (
	"errors"

	"github.com/diewo77/go-multidoc/i18n"
)

// Errors returned by the services. Callers test them with errors.Is; the
// wrapped detail is for logs only.
var (
	ErrTemplateFileMissing            = errors.New("template file missing")
	ErrDirectoryCreate                = errors.New("cannot create directory")
	ErrArchivePersist                 = errors.New("cannot persist archive")
	ErrContainerOpen                  = errors.New("cannot open document container")
	ErrContainerCapabilityUnavailable = errors.New("document container rewriting unavailable")
	ErrPdfConversionFailed            = errors.New("pdf conversion failed")
	ErrRecordNotFound                 = errors.New("record not found")
	ErrDatabase                       = errors.New("database error")
	ErrExtensionNotAllowed            = errors.New("file extension not allowed")
	ErrRefRequired                    = errors.New("ref required")
	ErrUserGroupRequired              = errors.New("user group required")
	ErrCopyFailed                     = errors.New("file copy failed")
	ErrUnknownObjectType              = errors.New("unknown object type")
)

// Result codes of a generation. A positive code is the archive id.
const (
	CodeTemplateFileMissing = -1
	CodeDirectoryCreate     = -2
	CodeArchivePersist      = -3
	CodeCopyFailed          = -20
	CodeContainerOpen       = -21
)

var messageCodes = []struct {
	err  error
	code string
}{
	{ErrTemplateFileMissing, "ErrorTemplateFileNotFound"},
	{ErrDirectoryCreate, "ErrorCanNotCreateDir"},
	{ErrArchivePersist, "ErrorArchivePersist"},
	{ErrContainerOpen, "ErrorCanNotOpenFile"},
	{ErrContainerCapabilityUnavailable, "ErrorContainerCapabilityUnavailable"},
	{ErrPdfConversionFailed, "ErrorPdfConversionFailed"},
	{ErrRecordNotFound, "ErrorRecordNotFound"},
	{ErrDatabase, "ErrorDatabase"},
	{ErrExtensionNotAllowed, "ErrorFileExtensionNotAllowed"},
	{ErrRefRequired, "ErrorRefRequired"},
	{ErrUserGroupRequired, "ErrorUserGroupRequired"},
	{ErrCopyFailed, "ErrorFileCopyFailed"},
	{ErrUnknownObjectType, "ErrorUnknownObjectType"},
}

// MessageCode returns the i18n message code for err, "internal_error" when
// err is not one of the service errors.
func MessageCode(err error) string {
	for _, mc := range messageCodes {
		if errors.Is(err, mc.err) {
			return mc.code
		}
	}
	return "internal_error"
}

// Message localizes err for lang.
func Message(lang string, err error, args ...any) string {
	return i18n.T(lang, MessageCode(err), args...)
}
