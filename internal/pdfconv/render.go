package pdfconv

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// Options configures the PDF page and text.
type Options struct {
	Margin     float64 // mm, all sides
	FontFamily string
	FontSize   float64 // pt
	LineHeight float64 // mm
	Title      string
	Author     string
}

func (o Options) withDefaults() Options {
	if o.Margin <= 0 {
		o.Margin = 15
	}
	if o.FontFamily == "" {
		o.FontFamily = "Arial"
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	if o.LineHeight <= 0 {
		o.LineHeight = 6
	}
	if o.Title == "" {
		o.Title = "Generated Document"
	}
	return o
}

var headingExtra = map[string]float64{"1": 8, "2": 5, "3": 3, "4": 1, "5": 0, "6": 0}

var (
	reBody  = regexp.MustCompile(`(?s)<body[^>]*>(.*)</body>`)
	reBlock = regexp.MustCompile(`(?s)<table>(.*?)</table>|<p>(.*?)</p>|<h([1-6])>(.*?)</h[1-6]>`)
	reRow   = regexp.MustCompile(`(?s)<tr>(.*?)</tr>`)
	reCell  = regexp.MustCompile(`(?s)<td>(.*?)</td>`)
	reTag   = regexp.MustCompile(`<[^>]*>`)
	reParaB = regexp.MustCompile(`</p>\s*<p>|<br\s*/?>`)
	reSpace = regexp.MustCompile(`[ \t\r\n]+`)

	reInline = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)([^>]*)>`)
	reClass  = regexp.MustCompile(`class="([^"]*)"`)
)

type renderer struct {
	pdf  *gofpdf.Fpdf
	opts Options
	tr   func(string) string
}

// HTMLToPDF lays out the HTML produced by OdtToHTML on A4 portrait pages
// and writes the PDF to out.
func HTMLToPDF(doc, out string, opts Options) error {
	opts = opts.withDefaults()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreator("go-multidoc", true)
	pdf.SetTitle(opts.Title, true)
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(true, opts.Margin)
	pdf.AddPage()

	r := &renderer{pdf: pdf, opts: opts, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	body := doc
	if m := reBody.FindStringSubmatch(doc); m != nil {
		body = m[1]
	}
	last := 0
	for _, loc := range reBlock.FindAllStringSubmatchIndex(body, -1) {
		r.loose(body[last:loc[0]])
		last = loc[1]
		switch {
		case loc[2] >= 0:
			r.table(body[loc[2]:loc[3]])
		case loc[4] >= 0:
			r.paragraph(body[loc[4]:loc[5]])
		default:
			r.heading(body[loc[6]:loc[7]], body[loc[8]:loc[9]])
		}
		if pdf.Err() {
			break
		}
	}
	r.loose(body[last:])

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("write pdf %s: %w", out, err)
	}
	return nil
}

// loose renders text found between blocks, if any.
func (r *renderer) loose(s string) {
	if strings.TrimSpace(plainText(s)) != "" {
		r.paragraph(s)
	}
}

func (r *renderer) paragraph(inner string) {
	r.pdf.SetFont(r.opts.FontFamily, "", r.opts.FontSize)
	r.inline(inner, "")
	r.pdf.Ln(r.opts.LineHeight)
	r.pdf.Ln(r.opts.LineHeight / 3)
}

func (r *renderer) heading(level, inner string) {
	size := r.opts.FontSize + headingExtra[level]
	lineHt := r.opts.LineHeight * size / r.opts.FontSize
	r.pdf.Ln(lineHt / 3)
	r.pdf.SetFont(r.opts.FontFamily, "B", size)
	saved := r.opts.LineHeight
	r.opts.LineHeight = lineHt
	r.inline(inner, "B")
	r.opts.LineHeight = saved
	r.pdf.Ln(lineHt)
	r.pdf.Ln(lineHt / 4)
	r.pdf.SetFont(r.opts.FontFamily, "", r.opts.FontSize)
}

// inline writes flowing text, honouring b/strong, i/em, u, styled spans
// and line breaks. base is the font style of the enclosing block.
func (r *renderer) inline(s, base string) {
	type state struct{ b, i, u bool }
	cur := state{b: strings.Contains(base, "B")}
	var stack []state

	apply := func() {
		style := ""
		if cur.b {
			style += "B"
		}
		if cur.i {
			style += "I"
		}
		if cur.u {
			style += "U"
		}
		r.pdf.SetFontStyle(style)
	}
	apply()

	text := func(t string) {
		t = reSpace.ReplaceAllString(html.UnescapeString(t), " ")
		if t != "" {
			r.pdf.Write(r.opts.LineHeight, r.tr(t))
		}
	}

	pos := 0
	for _, m := range reInline.FindAllStringSubmatchIndex(s, -1) {
		text(s[pos:m[0]])
		pos = m[1]
		closing := m[3] > m[2]
		name := strings.ToLower(s[m[4]:m[5]])
		attrs := s[m[6]:m[7]]

		if closing {
			switch name {
			case "b", "strong", "i", "em", "u", "span":
				if n := len(stack); n > 0 {
					cur = stack[n-1]
					stack = stack[:n-1]
					apply()
				}
			case "p":
				r.pdf.Ln(r.opts.LineHeight)
			}
			continue
		}

		switch name {
		case "br":
			r.pdf.Ln(r.opts.LineHeight)
			continue
		case "b", "strong":
			stack = append(stack, cur)
			cur.b = true
		case "i", "em":
			stack = append(stack, cur)
			cur.i = true
		case "u":
			stack = append(stack, cur)
			cur.u = true
		case "span":
			stack = append(stack, cur)
			if c := reClass.FindStringSubmatch(attrs); c != nil {
				for _, class := range strings.Fields(c[1]) {
					switch class {
					case "bold":
						cur.b = true
					case "italic":
						cur.i = true
					case "underline":
						cur.u = true
					}
				}
			}
		default:
			continue
		}
		apply()
	}
	text(s[pos:])
}

func (r *renderer) table(inner string) {
	var rows [][]string
	cols := 0
	for _, row := range reRow.FindAllStringSubmatch(inner, -1) {
		var cells []string
		for _, cell := range reCell.FindAllStringSubmatch(row[1], -1) {
			cells = append(cells, r.tr(plainText(cell[1])))
		}
		cols = max(cols, len(cells))
		rows = append(rows, cells)
	}
	if cols == 0 {
		return
	}

	pdf := r.pdf
	pdf.SetFont(r.opts.FontFamily, "", r.opts.FontSize)
	pageW, pageH := pdf.GetPageSize()
	left := r.opts.Margin
	colW := (pageW - 2*r.opts.Margin) / float64(cols)
	lineHt := r.opts.LineHeight
	pdf.Ln(lineHt / 3)

	for _, cells := range rows {
		lines := 1
		for _, c := range cells {
			lines = max(lines, len(pdf.SplitLines([]byte(c), colW-2)))
		}
		rowH := float64(lines) * lineHt
		if pdf.GetY()+rowH > pageH-r.opts.Margin {
			pdf.AddPage()
		}
		y := pdf.GetY()
		for i := 0; i < cols; i++ {
			x := left + float64(i)*colW
			pdf.Rect(x, y, colW, rowH, "D")
			if i < len(cells) {
				pdf.SetXY(x, y)
				pdf.MultiCell(colW, lineHt, cells[i], "", "L", false)
			}
		}
		pdf.SetXY(left, y+rowH)
	}
	pdf.Ln(lineHt / 2)
}

// plainText strips tags, turning paragraph and line breaks into spaces.
func plainText(s string) string {
	s = reParaB.ReplaceAllString(s, " ")
	s = reTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}
