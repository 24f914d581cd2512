package parser

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Normalize folds full-width forms to their narrow equivalents, collapses
// every run of whitespace (including non-breaking spaces) into one space and
// trims the result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	narrow := width.Narrow.String(text)
	return strings.Join(strings.Fields(narrow), " ")
}

// windowAt returns the byte range covering up to before runes ahead of pos
// and up to after runes from pos onwards.
func windowAt(s string, pos, before, after int) (int, int) {
	from := pos
	for n := 0; n < before && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(s[:from])
		from -= size
	}
	to := pos
	for n := 0; n < after && to < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[to:])
		to += size
	}
	return from, to
}

// asciiLower lower-cases A-Z only so byte offsets stay aligned with the input.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
