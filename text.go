package xbrlstmt

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// normalizeFilingText cleans the Unicode and HTML-entity noise that's
// endemic to SEC filing documents before they reach an XML or HTML parser:
// non-breaking spaces, smart quotes encoded as named or numeric entities,
// zero-width characters, and CRLF line endings. Both ParseInstance and
// ParseInlineXBRL run their input through this first, since a raw fact
// value of "1,234&nbsp;" or one containing a zero-width joiner would
// otherwise fail decimal.NewFromString rather than simply parsing to the
// number the filer intended.
func normalizeFilingText(data []byte) []byte {
	text := string(data)
	text = normalizeHTMLEntities(text)
	text = normalizeUnicodeWhitespace(text)
	text = stripInvisibleRunes(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return []byte(text)
}

var namedEntityReplacements = map[string]string{
	"&nbsp;":   " ",
	"&mdash;":  "—",
	"&ndash;":  "–",
	"&ldquo;":  "“",
	"&rdquo;":  "”",
	"&lsquo;":  "‘",
	"&rsquo;":  "’",
	"&hellip;": "...",
	"&bull;":   "•",
	"&trade;":  "™",
	"&reg;":    "®",
	"&copy;":   "©",
	"&sect;":   "§",
	"&para;":   "¶",
}

var numericEntityPattern = regexp.MustCompile(`&#(\d+);`)

func normalizeHTMLEntities(text string) string {
	for entity, repl := range namedEntityReplacements {
		text = strings.ReplaceAll(text, entity, repl)
	}

	return numericEntityPattern.ReplaceAllStringFunc(text, func(match string) string {
		var code int
		if _, err := fmt.Sscanf(match, "&#%d;", &code); err != nil {
			return match
		}
		switch code {
		case 160:
			return " "
		case 8211:
			return "–"
		case 8212:
			return "—"
		case 8220, 8221:
			return "\""
		case 8217:
			return "'"
		default:
			if code > 0 && code < 0x110000 {
				return string(rune(code))
			}
			return match
		}
	})
}

// unicodeSpaceRunes are the Unicode whitespace variants SEC filings use in
// place of U+0020, beyond the non-breaking space already handled by the
// "&nbsp;" replacement above.
var unicodeSpaceRunes = map[rune]bool{
	0x00A0: true, // no-break space
	0x2000: true, 0x2001: true, 0x2002: true, 0x2003: true, // en/em quads
	0x2004: true, 0x2005: true, 0x2006: true, // three-per-em .. six-per-em
	0x2007: true, 0x2008: true, 0x2009: true, 0x200A: true, // figure .. hair space
	0x202F: true, // narrow no-break space
	0x205F: true, // medium mathematical space
	0x3000: true, // ideographic space
}

func normalizeUnicodeWhitespace(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicodeSpaceRunes[r] {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// invisibleRunes are zero-width characters that occasionally slip into
// filing text via copy-paste from word processors and should never survive
// into a parsed concept id or fact value.
var invisibleRunes = map[rune]bool{
	0x200B: true, // zero-width space
	0x200C: true, // zero-width non-joiner
	0x200D: true, // zero-width joiner
	0xFEFF: true, // zero-width no-break space / BOM
	0x180E: true, // Mongolian vowel separator
}

func stripInvisibleRunes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if invisibleRunes[r] {
			continue
		}
		if unicode.Is(unicode.Cf, r) && r != '\t' && r != '\n' && r != '\r' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
