// Package httpx holds the JSON and file response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse carries a localized confirmation plus optional warnings.
type MessageResponse struct {
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
	Data     any      `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Message writes a MessageResponse.
func Message(w http.ResponseWriter, status int, msg string, warnings []string, data any) {
	JSON(w, status, MessageResponse{Message: msg, Warnings: warnings, Data: data})
}

// Attachment streams the file at path as a download named name. It returns
// os.ErrNotExist (wrapped) without writing anything when the file is gone.
func Attachment(w http.ResponseWriter, r *http.Request, path, name, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat attachment: %w", err)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, st.ModTime(), f)
	return nil
}
