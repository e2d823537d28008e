// Package handlers exposes the template, archive and administration
// endpoints as JSON over net/http.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-multidoc/gate"
	"github.com/diewo77/go-multidoc/httpx"
	"github.com/diewo77/go-multidoc/i18n"
	"github.com/diewo77/go-multidoc/internal/logger"
	"github.com/diewo77/go-multidoc/internal/services"
)

// Authorizer checks the acting user of ctx against a module permission and,
// when resource is not nil, the module's scope policy.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, module string, resource any) error
}

const (
	moduleTemplate = "template"
	moduleArchive  = "archive"
)

func lang(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// pathID parses the {name} path value as a positive id.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formID parses an optional positive id from a form value. Zero means absent.
func formID(r *http.Request, name string) uint {
	return parseID(r.FormValue(name))
}

func parseID(s string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func formBool(r *http.Request, name string) bool {
	switch strings.ToLower(r.FormValue(name)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func badID(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusBadRequest, i18n.T(lang(r), "invalid_id"), nil)
}

// statusFor maps service and gate errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExtensionNotAllowed),
		errors.Is(err, services.ErrRefRequired),
		errors.Is(err, services.ErrUserGroupRequired),
		errors.Is(err, services.ErrUnknownObjectType):
		return http.StatusBadRequest
	case errors.Is(err, gate.ErrUnauthorized), errors.Is(err, gate.ErrNoProfile):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// fail writes err as a localized JSON error. Server errors are logged.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := services.Message(lang(r), err)
	if status == http.StatusForbidden {
		msg = i18n.T(lang(r), "forbidden")
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	}
	httpx.JSONError(w, status, msg, nil)
}
