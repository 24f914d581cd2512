package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var suffixMultipliers = map[byte]decimal.Decimal{
	'k': decimal.NewFromInt(1_000),
	'm': decimal.NewFromInt(1_000_000),
	'b': decimal.NewFromInt(1_000_000_000),
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// numberAt reads the numeric token starting at byte offset i of s and returns
// its value and the offset just past it. Commas and single spaces between
// digit groups are separators; a trailing K, M or B (optionally after one
// space, not followed by another letter) scales the value.
func numberAt(s string, i int) (float64, int, bool) {
	if i < 0 || i >= len(s) || !isDigit(s[i]) {
		return 0, i, false
	}
	j := i
	for j < len(s) {
		c := s[j]
		switch {
		case isDigit(c), c == ',', c == '.':
			j++
			continue
		case c == ' ' && j+1 < len(s) && isDigit(s[j+1]):
			j++
			continue
		}
		break
	}
	end := j
	for end > i && (s[end-1] == ',' || s[end-1] == '.') {
		end--
	}

	clean := strings.NewReplacer(",", "", " ", "").Replace(s[i:end])
	value, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, i, false
	}

	if end == j {
		if mult, next, ok := suffixAt(s, j); ok {
			value = value.Mul(mult)
			j = next
		}
	}

	f := value.InexactFloat64()
	return f, j, true
}

func suffixAt(s string, j int) (decimal.Decimal, int, bool) {
	p := j
	if p < len(s) && s[p] == ' ' {
		p++
	}
	if p >= len(s) {
		return decimal.Decimal{}, j, false
	}
	mult, ok := suffixMultipliers[s[p]|0x20]
	if !ok {
		return decimal.Decimal{}, j, false
	}
	if p+1 < len(s) {
		r, _ := utf8.DecodeRuneInString(s[p+1:])
		if unicode.IsLetter(r) {
			return decimal.Decimal{}, j, false
		}
	}
	return mult, p + 1, true
}

// negativeAt reports whether a minus sign sits directly before offset i.
// A hyphen that follows a digit separates a range ("10-20") and is not a sign.
func negativeAt(s string, i int) bool {
	head := s[:i]
	var sign string
	switch {
	case strings.HasSuffix(head, "-"):
		sign = "-"
	case strings.HasSuffix(head, "−"):
		sign = "−"
	default:
		return false
	}
	head = head[:len(head)-len(sign)]
	return head == "" || !isDigit(head[len(head)-1])
}

// firstNumber returns the first numeric token inside s[from:to]. The token
// is cut at the window edge.
func firstNumber(s string, from, to int) (float64, int, bool) {
	window := s[from:to]
	for k := 0; k < len(window); k++ {
		if !isDigit(window[k]) {
			continue
		}
		v, _, ok := numberAt(window, k)
		return v, from + k, ok
	}
	return 0, 0, false
}
