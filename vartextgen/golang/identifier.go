package golang

import (
	"unicode"
	"unicode/utf8"
)

// exportName upper-cases the first rune of a field or case name so it is
// exported from the generated package.
func exportName(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// markerName is the unexported marker method that seals an enum's
// interface to its own package.
func markerName(enum string) string {
	return "is" + exportName(enum)
}
