package sprite

import "strings"

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func upperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

// Sanitize turns an arbitrary name into an uppercase identifier usable
// in generated source. ASCII letters are uppercased, hyphens become
// underscores, leading runes other than ASCII letters or underscore are
// skipped and any remaining rune that is not ASCII alphanumeric or
// underscore is dropped. Uppercasing is ASCII only: a rune like ı or ſ
// is dropped with the other non-ASCII runes, not mapped to I or S. The
// result may be empty.
func Sanitize(name string) string {
	s := strings.ReplaceAll(strings.Map(upperASCII, name), "-", "_")
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !isASCIILetter(r) && r != '_'
	})

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isASCIILetter(r) || isASCIIDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
