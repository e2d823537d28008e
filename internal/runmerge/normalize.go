// Package runmerge rejoins {placeholders} that a word processor split
// across several WordprocessingML runs, e.g.
//
//	<w:r><w:t>{comp</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>any_name}</w:t></w:r>
//
// becomes
//
//	<w:r><w:t>{company_name}</w:t></w:r>
//
// Only run-level markup between the braces is removed. A placeholder never
// spans paragraphs, fields, breaks or drawings; such spans are left alone.
package runmerge

import "strings"

// Passes bounds the number of scans Normalize makes. A scan that changes
// nothing ends the loop early.
const Passes = 5

// maxSpan bounds the distance in bytes between a '{' and its '}'.
const maxSpan = 4096

// runBoundary lists the elements that may be dropped from inside a
// placeholder: runs, their text and properties, and zero-width marks.
// Inside a w:rPr every element is accepted.
var runBoundary = map[string]bool{
	"w:r":                     true,
	"w:t":                     true,
	"w:rPr":                   true,
	"w:rStyle":                true,
	"w:rFonts":                true,
	"w:b":                     true,
	"w:bCs":                   true,
	"w:i":                     true,
	"w:iCs":                   true,
	"w:u":                     true,
	"w:strike":                true,
	"w:dstrike":               true,
	"w:caps":                  true,
	"w:smallCaps":             true,
	"w:color":                 true,
	"w:highlight":             true,
	"w:shd":                   true,
	"w:sz":                    true,
	"w:szCs":                  true,
	"w:spacing":               true,
	"w:kern":                  true,
	"w:position":              true,
	"w:vertAlign":             true,
	"w:lang":                  true,
	"w:noProof":               true,
	"w:webHidden":             true,
	"w:proofErr":              true,
	"w:bookmarkStart":         true,
	"w:bookmarkEnd":           true,
	"w:lastRenderedPageBreak": true,
}

// Normalize merges split placeholders in a WordprocessingML part. Text
// outside merged spans is returned byte for byte. Normalize is idempotent.
func Normalize(xml string) string {
	for pass := 0; pass < Passes; pass++ {
		out, changed := mergePass(xml)
		if !changed {
			break
		}
		xml = out
	}
	return xml
}

func mergePass(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	changed := false
	for i := 0; i < len(s); {
		switch s[i] {
		case '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String(), changed
			}
			b.WriteString(s[i : i+end+1])
			i += end + 1
		case '{':
			if merged, next, ok := mergeSpan(s, i); ok {
				b.WriteString(merged)
				i = next
				changed = true
				continue
			}
			b.WriteByte('{')
			i++
		default:
			j := strings.IndexAny(s[i:], "<{")
			if j < 0 {
				b.WriteString(s[i:])
				return b.String(), changed
			}
			b.WriteString(s[i : i+j])
			i += j
		}
	}
	return b.String(), changed
}

// mergeSpan follows the text from the '{' at start to the next '}'. It
// succeeds when only balanced run-boundary markup lies in between, and
// returns the placeholder without that markup and the index after '}'.
func mergeSpan(s string, start int) (string, int, bool) {
	var text strings.Builder
	text.WriteByte('{')
	depth := map[string]int{}
	markup := false

	for i := start + 1; i < len(s) && i-start <= maxSpan; {
		switch s[i] {
		case '{':
			return "", 0, false
		case '}':
			if !markup {
				return "", 0, false
			}
			for _, d := range depth {
				if d != 0 {
					return "", 0, false
				}
			}
			text.WriteByte('}')
			return text.String(), i + 1, true
		case '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return "", 0, false
			}
			name, delta := parseTag(s[i+1 : i+end])
			// any run property is fine, only run-level markup is checked
			if depth["w:rPr"] == 0 && !runBoundary[name] {
				return "", 0, false
			}
			depth[name] += delta
			markup = true
			i += end + 1
		default:
			text.WriteByte(s[i])
			i++
		}
	}
	return "", 0, false
}

// parseTag returns the element name of the tag body between '<' and '>'
// and +1 for an opening tag, -1 for a closing tag, 0 when self-closing.
func parseTag(body string) (string, int) {
	delta := 1
	if strings.HasPrefix(body, "/") {
		body = body[1:]
		delta = -1
	} else if strings.HasSuffix(body, "/") {
		body = body[:len(body)-1]
		delta = 0
	}
	if i := strings.IndexAny(body, " \t\r\n/"); i >= 0 {
		body = body[:i]
	}
	return body, delta
}
