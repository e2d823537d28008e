// Package pdfconv turns a generated ODT into a PDF without an office
// suite: content.xml is translated to simple HTML, which is then laid out
// with gofpdf. Layout fidelity is limited to paragraphs, headings, tables
// and inline bold, italic and underline.
package pdfconv

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/diewo77/go-multidoc/internal/container"
)

// ErrNoContent means the ODT has no readable content.xml.
var ErrNoContent = errors.New("pdfconv: content.xml not found")

// Result of a conversion. The source ODT is never removed by Convert.
type Result struct {
	Success    bool
	OutputPath string
	Err        error
}

var reOdtExt = regexp.MustCompile(`(?i)\.odt$`)

// PDFPath returns odtPath with its .odt extension replaced by .pdf.
func PDFPath(odtPath string) string {
	if reOdtExt.MatchString(odtPath) {
		return reOdtExt.ReplaceAllString(odtPath, ".pdf")
	}
	return odtPath + ".pdf"
}

// Convert renders the ODT at odtPath into a PDF next to it.
func Convert(odtPath string, opts Options) Result {
	doc, err := ReadHTML(odtPath)
	if err != nil {
		return Result{Err: err}
	}
	out := PDFPath(odtPath)
	if err := HTMLToPDF(doc, out, opts); err != nil {
		os.Remove(out)
		return Result{Err: err}
	}
	return Result{Success: true, OutputPath: out}
}

// ReadHTML extracts content.xml and styles.xml from the ODT at path and
// translates them with OdtToHTML.
func ReadHTML(path string) (string, error) {
	content, err := container.ReadMember(path, "content.xml")
	if err != nil {
		if errors.Is(err, container.ErrOpen) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}
	styles, _ := container.ReadMember(path, "styles.xml")
	return OdtToHTML(content, styles), nil
}
