// Package slug derives filename-safe slugs from post titles.
package slug

import "strings"

// accents maps the accented letters that show up in Portuguese and French
// titles to their unaccented ASCII form. Anything not listed is dropped.
var accents = map[rune]byte{
	'á': 'a', 'à': 'a', 'ã': 'a', 'â': 'a',
	'Á': 'a', 'À': 'a', 'Ã': 'a', 'Â': 'a',
	'é': 'e', 'ê': 'e', 'É': 'e', 'Ê': 'e',
	'í': 'i', 'Í': 'i',
	'ó': 'o', 'õ': 'o', 'ô': 'o',
	'Ó': 'o', 'Õ': 'o', 'Ô': 'o',
	'ú': 'u', 'Ú': 'u',
	'ç': 'c', 'Ç': 'c',
}

// Make converts a title to a lowercase slug over [a-z0-9-].
//
// Runs of spaces, tabs and hyphens become a single hyphen, so a slug fed
// back into Make comes out unchanged. The result never starts or ends with
// a hyphen and may be empty when the title has no usable characters.
func Make(title string) string {
	var b strings.Builder
	sep := true // suppresses a leading hyphen
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			sep = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			sep = false
		case r == ' ' || r == '\t' || r == '-':
			if !sep {
				b.WriteByte('-')
				sep = true
			}
		default:
			if c, ok := accents[r]; ok {
				b.WriteByte(c)
				sep = false
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
