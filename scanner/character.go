package scanner

import "unicode"

// ASCII character lookup tables for fast classification (zero-allocation)
//
// Variable names in the simple $NAME form follow the shell rule extended
// to Unicode: a letter or underscore start, then letters, digits, or
// underscores. The braced ${...} form does not use these tables; its name
// is whatever precedes the first modifier.
var (
	asciiNameStart [128]bool // a-z, A-Z, _
	asciiNamePart  [128]bool // a-z, A-Z, 0-9, _
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		letter := ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		digit := '0' <= ch && ch <= '9'
		asciiNameStart[i] = letter || ch == '_'
		asciiNamePart[i] = letter || digit || ch == '_'
	}
}

// isNameStart reports whether r can begin a simple variable name.
func isNameStart(r rune) bool {
	if r < 128 {
		return asciiNameStart[r]
	}
	return unicode.IsLetter(r)
}

// isNamePart reports whether r can continue a simple variable name.
func isNamePart(r rune) bool {
	if r < 128 {
		return asciiNamePart[r]
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
