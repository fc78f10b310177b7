package elsewhere

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slugify lowercases the ASCII transliteration of s, collapses every run of
// non-alphanumeric characters into a single hyphen and trims hyphens at both ends.
// Network ids are derived from it so the output must stay stable.
func Slugify(s string) string {
	ascii := strings.ToLower(unidecode.Unidecode(s))

	var b strings.Builder
	b.Grow(len(ascii))
	pendingHyphen := false
	for i := 0; i < len(ascii); i++ {
		c := ascii[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}
