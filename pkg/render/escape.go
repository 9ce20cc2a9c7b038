package render

import "strings"

// textSpecials are the characters that must not appear literally in
// element content; attrSpecials additionally covers whitespace that
// would let a value escape a double-quoted attribute.
const (
	textSpecials = "&<>\"'"
	attrSpecials = "&<>\"'\n\r\t"
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeHTML escapes text for inclusion in element content. Most
// strings contain nothing special and pass through unchanged.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, textSpecials) {
		return s
	}
	return textEscaper.Replace(s)
}

// escapeAttr escapes text for a double-quoted attribute value.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, attrSpecials) {
		return s
	}
	return attrEscaper.Replace(s)
}
