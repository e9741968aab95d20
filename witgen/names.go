package witgen

import (
	"strings"
	"unicode"
)

// Kebab converts a Go identifier to a WIT kebab-case name:
// "HTTPServer" becomes "http-server" and "userID" becomes "user-id".
func Kebab(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) &&
				!strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
		if unicode.IsDigit(r) && b.Len() == 0 {
			b.WriteString("x")
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSuffix(b.String(), "-")
}
