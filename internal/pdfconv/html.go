package pdfconv

import (
	"regexp"
	"strings"
)

const stylesheet = `body { font-family: Arial, sans-serif; font-size: 12pt; line-height: 1.5; margin: 20mm; }` +
	`p { margin: 0 0 10px 0; }` +
	`table { border-collapse: collapse; width: 100%; margin: 10px 0; }` +
	`td, th { border: 1px solid #ccc; padding: 5px; }` +
	`h1, h2, h3, h4, h5, h6 { margin: 15px 0 10px 0; }` +
	`.bold { font-weight: bold; }` +
	`.italic { font-style: italic; }` +
	`.underline { text-decoration: underline; }`

var (
	reXMLDecl     = regexp.MustCompile(`<\?xml[^>]*\?>`)
	reStyleDef    = regexp.MustCompile(`(?s)<style:style(\s[^>]*[^/])>(.*?)</style:style>`)
	reStyleName   = regexp.MustCompile(`style:name="([^"]+)"`)
	reParaOpen    = regexp.MustCompile(`<text:p(?:\s[^>]*)?/?>`)
	reLineBreak   = regexp.MustCompile(`<text:line-break\s*/>`)
	reSpanOpen    = regexp.MustCompile(`<text:span(?:\s[^>]*)?>`)
	reSpanStyle   = regexp.MustCompile(`text:style-name="([^"]*)"`)
	reTableOpen   = regexp.MustCompile(`<table:table(?:\s[^>]*)?>`)
	reRowOpen     = regexp.MustCompile(`<table:table-row(?:\s[^>]*)?>`)
	reCellOpen    = regexp.MustCompile(`<table:table-cell(?:\s[^>]*)?/?>`)
	reHeading     = regexp.MustCompile(`(?s)<text:h(\s[^>]*)?>(.*?)</text:h>`)
	reOutline     = regexp.MustCompile(`text:outline-level="(\d+)"`)
	reStyleBlock  = regexp.MustCompile(`(?s)<style:[^>]+[^/]>.*?</style:[^>]+>`)
	reDrawBlock   = regexp.MustCompile(`(?s)<draw:[^>]+[^/]>.*?</draw:[^>]+>`)
	reTableColumn = regexp.MustCompile(`<table:table-column[^>]*/>`)
	reNamespaced  = regexp.MustCompile(`</?[a-zA-Z]+:[^>]*>`)
)

// textStyles maps automatic text style names to the classes they imply.
func textStyles(docs ...string) map[string][]string {
	out := map[string][]string{}
	for _, doc := range docs {
		for _, m := range reStyleDef.FindAllStringSubmatch(doc, -1) {
			name := reStyleName.FindStringSubmatch(m[1])
			if name == nil {
				continue
			}
			var classes []string
			if strings.Contains(m[2], `fo:font-weight="bold"`) {
				classes = append(classes, "bold")
			}
			if strings.Contains(m[2], `fo:font-style="italic"`) {
				classes = append(classes, "italic")
			}
			if strings.Contains(m[2], `style:text-underline-style="solid"`) {
				classes = append(classes, "underline")
			}
			if len(classes) > 0 {
				out[name[1]] = classes
			}
		}
	}
	return out
}

func spanClasses(styleName string, styles map[string][]string) []string {
	if c, ok := styles[styleName]; ok {
		return c
	}
	var classes []string
	if strings.Contains(styleName, "Bold") {
		classes = append(classes, "bold")
	}
	if strings.Contains(styleName, "Italic") {
		classes = append(classes, "italic")
	}
	return classes
}

// OdtToHTML translates the content.xml of an ODT (and optionally its
// styles.xml) into a simple HTML document: paragraphs, line breaks,
// headings, tables and bold, italic or underlined spans. Everything else
// is dropped, text included for drawings and style definitions.
func OdtToHTML(content, styles string) string {
	spanStyles := textStyles(content, styles)

	c := reXMLDecl.ReplaceAllString(content, "")

	c = reHeading.ReplaceAllStringFunc(c, func(s string) string {
		m := reHeading.FindStringSubmatch(s)
		level := "4"
		if lv := reOutline.FindStringSubmatch(m[1]); lv != nil {
			switch lv[1] {
			case "1", "2", "3":
				level = lv[1]
			}
		}
		return "<h" + level + ">" + m[2] + "</h" + level + ">"
	})

	c = reParaOpen.ReplaceAllStringFunc(c, func(s string) string {
		if strings.HasSuffix(s, "/>") {
			return "<p></p>"
		}
		return "<p>"
	})
	c = strings.ReplaceAll(c, "</text:p>", "</p>")
	c = reLineBreak.ReplaceAllString(c, "<br>")

	c = reSpanOpen.ReplaceAllStringFunc(c, func(s string) string {
		m := reSpanStyle.FindStringSubmatch(s)
		if m == nil {
			return "<span>"
		}
		classes := spanClasses(m[1], spanStyles)
		if len(classes) == 0 {
			return "<span>"
		}
		return `<span class="` + strings.Join(classes, " ") + `">`
	})
	c = strings.ReplaceAll(c, "</text:span>", "</span>")

	c = reTableColumn.ReplaceAllString(c, "")
	c = reTableOpen.ReplaceAllString(c, "<table>")
	c = strings.ReplaceAll(c, "</table:table>", "</table>")
	c = reRowOpen.ReplaceAllString(c, "<tr>")
	c = strings.ReplaceAll(c, "</table:table-row>", "</tr>")
	c = reCellOpen.ReplaceAllStringFunc(c, func(s string) string {
		if strings.HasSuffix(s, "/>") {
			return "<td></td>"
		}
		return "<td>"
	})
	c = strings.ReplaceAll(c, "</table:table-cell>", "</td>")

	c = reStyleBlock.ReplaceAllString(c, "")
	c = reDrawBlock.ReplaceAllString(c, "")
	c = reNamespaced.ReplaceAllString(c, "")

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><style>`)
	b.WriteString(stylesheet)
	b.WriteString(`</style></head><body>`)
	b.WriteString(strings.TrimSpace(c))
	b.WriteString(`</body></html>`)
	return b.String()
}
