// Package storage lays out template and archive files under the data root
// and offers the small file operations the services need.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store resolves paths below Root.
type Store struct {
	Root string
}

// New returns a store rooted at root.
func New(root string) *Store {
	return &Store{Root: root}
}

// TemplateDir is <root>/templates/group_<id>.
func (s *Store) TemplateDir(groupID uint) string {
	return filepath.Join(s.Root, "templates", "group_"+strconv.FormatUint(uint64(groupID), 10))
}

// ArchiveDir is <root>/archives/<kind>_<id>, with a sanitized tag
// subfolder when tag is not empty.
func (s *Store) ArchiveDir(kind string, id uint, tag string) string {
	dir := filepath.Join(s.Root, "archives", kind+"_"+strconv.FormatUint(uint64(id), 10))
	if tag = SanitizeFileName(tag); tag != "" {
		dir = filepath.Join(dir, tag)
	}
	return dir
}

// Key returns path relative to the root with forward slashes, used as the
// object name when mirroring.
func (s *Store) Key(path string) (string, error) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", path, s.Root)
	}
	return filepath.ToSlash(rel), nil
}

// Exists reports whether path is an existing regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// MkdirAll creates dir and its parents.
func MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Copy copies src to dst, overwriting dst.
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = writeFile(dst, in)
	return err
}

// MoveUpload writes the uploaded content to dst and returns its size.
// The file appears at dst only once fully written.
func MoveUpload(r io.Reader, dst string) (int64, error) {
	return writeFile(dst, r)
}

func writeFile(dst string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dst)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

// forbidden characters in file and directory names.
var sanitizer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_",
	"<", "_", ">", "_", "|", "_", "[", "_", "]", "_", ",", "_",
	";", "_", "=", "_", "'", "_", "%", "_", "$", "_", "#", "_",
	"&", "_", "+", "_", "{", "_", "}", "_", "^", "_", "`", "_",
	"~", "_", "!", "_",
)

// SanitizeFileName replaces characters unsafe in file names with '_'.
// Control characters are dropped and leading dots are trimmed so the
// result never names a parent or hidden entry.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = sanitizer.Replace(strings.TrimSpace(name))
	return strings.TrimLeft(name, ".")
}
