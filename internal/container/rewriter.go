// Package container rewrites selected XML members of ZIP based office
// documents (ODT, ODS, XLSX, DOCX) while copying every other member as is.
package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/diewo77/go-multidoc/internal/storage"
)

var (
	// ErrCopy means the template could not be copied to the destination.
	ErrCopy = errors.New("container: copy failed")
	// ErrOpen means the destination is not a readable ZIP archive.
	ErrOpen = errors.New("container: cannot open archive")
)

// Members of each format that may hold placeholders.
var (
	ODTMembers  = []string{"content.xml", "styles.xml"}
	ODSMembers  = []string{"content.xml"}
	XLSXMembers = []string{
		"xl/sharedStrings.xml",
		"xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet2.xml",
		"xl/worksheets/sheet3.xml",
	}
	DOCXMembers = []string{
		"word/document.xml",
		"word/header1.xml",
		"word/header2.xml",
		"word/header3.xml",
		"word/footer1.xml",
		"word/footer2.xml",
		"word/footer3.xml",
	}
)

// Options tunes a rewrite.
type Options struct {
	// LineBreak replaces newlines inside substituted values.
	LineBreak string
	// Transform runs on each targeted member before substitution.
	Transform func(string) string
}

// Result lists the members whose content changed.
type Result struct {
	Rewritten []string
}

// Rewrite copies src to dst, then substitutes values into the listed
// members of dst. Members absent from the archive are skipped. Members
// whose content ends up unchanged, and all others, are copied raw in their
// original order and compression.
func Rewrite(src, dst string, values map[string]string, members []string, opts Options) (Result, error) {
	if err := storage.Copy(src, dst); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCopy, err)
	}

	r, err := zip.OpenReader(dst)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	res, tmp, err := rewriteTo(&r.Reader, filepath.Dir(dst), values, members, opts)
	r.Close()
	if err != nil {
		return Result{}, err
	}
	if len(res.Rewritten) == 0 {
		os.Remove(tmp)
		return res, nil
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return Result{}, fmt.Errorf("replace %s: %w", dst, err)
	}
	return res, nil
}

func rewriteTo(r *zip.Reader, dir string, values map[string]string, members []string, opts Options) (Result, string, error) {
	targets := make(map[string]bool, len(members))
	for _, m := range members {
		targets[m] = true
	}
	sub := NewSubstituter(values, opts.LineBreak)

	out, err := os.CreateTemp(dir, ".rewrite-*")
	if err != nil {
		return Result{}, "", err
	}
	fail := func(err error) (Result, string, error) {
		out.Close()
		os.Remove(out.Name())
		return Result{}, "", err
	}

	var res Result
	w := zip.NewWriter(out)
	for _, f := range r.File {
		if !targets[f.Name] {
			if err := w.Copy(f); err != nil {
				return fail(fmt.Errorf("copy %s: %w", f.Name, err))
			}
			continue
		}

		original, err := readMember(f)
		if err != nil {
			return fail(err)
		}
		content := original
		if opts.Transform != nil {
			content = opts.Transform(content)
		}
		content = sub.Replace(content)
		if content == original {
			if err := w.Copy(f); err != nil {
				return fail(fmt.Errorf("copy %s: %w", f.Name, err))
			}
			continue
		}

		hdr := f.FileHeader
		hdr.Extra = append([]byte(nil), f.Extra...)
		// The MS-DOS fields and the original extra fields already carry
		// the timestamp.
		hdr.Modified = time.Time{}
		fw, err := w.CreateHeader(&hdr)
		if err != nil {
			return fail(fmt.Errorf("create %s: %w", f.Name, err))
		}
		if _, err := io.WriteString(fw, content); err != nil {
			return fail(fmt.Errorf("write %s: %w", f.Name, err))
		}
		res.Rewritten = append(res.Rewritten, f.Name)
	}

	if err := w.Close(); err != nil {
		return fail(fmt.Errorf("finalize archive: %w", err))
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return Result{}, "", err
	}
	return res, out.Name(), nil
}

func readMember(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	return string(b), nil
}

// ReadMember returns the content of one member of the archive at path.
func ReadMember(path, name string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name == name {
			return readMember(f)
		}
	}
	return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
}
