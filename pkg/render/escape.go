package render

import (
	"strconv"
	"strings"
)

// escape replaces the HTML special characters of s. In attribute values
// whitespace control characters are escaped as well.
func escape(s string, attr bool) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n', '\r', '\t':
			if attr {
				buf.WriteString("&#")
				buf.WriteString(strconv.Itoa(int(r)))
				buf.WriteByte(';')
				continue
			}
			buf.WriteRune(r)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
