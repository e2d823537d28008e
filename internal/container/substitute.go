package container

import (
	"sort"
	"strings"
)

// ODTLineBreak replaces newlines of values substituted into ODF text.
const ODTLineBreak = "<text:line-break/>"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five predefined XML entities.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Substituter replaces every {key} of a map in one pass over the text, so
// a value containing another placeholder is never expanded again.
type Substituter struct {
	r *strings.Replacer
}

// NewSubstituter prepares the replacement of values. When lineBreak is
// not empty, newlines in values become lineBreak after escaping.
func NewSubstituter(values map[string]string, lineBreak string) *Substituter {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", encodeValue(values[k], lineBreak))
	}
	return &Substituter{r: strings.NewReplacer(pairs...)}
}

// Replace returns content with the placeholders substituted.
func (s *Substituter) Replace(content string) string {
	return s.r.Replace(content)
}

// Substitute is a one-shot NewSubstituter(values, lineBreak).Replace(content).
func Substitute(content string, values map[string]string, lineBreak string) string {
	if len(values) == 0 {
		return content
	}
	return NewSubstituter(values, lineBreak).Replace(content)
}

func encodeValue(v, lineBreak string) string {
	v = EscapeXML(v)
	if lineBreak == "" {
		return v
	}
	v = strings.ReplaceAll(v, "\r\n", "\n")
	return strings.ReplaceAll(v, "\n", lineBreak)
}
