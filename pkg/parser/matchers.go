package parser

import (
	"regexp"
	"strings"

	"github.com/amirasaad/quickcurrency/pkg/domain"
)

var (
	codeThenNumber    = regexp.MustCompile(`(?i)\b([a-z]{3})\b[\s:]*(\d)`)
	numberThenCode    = regexp.MustCompile(`(?i)(\d[\d,.\s]*?(?:\s?[kmb])?)\s*\b([a-z]{3})\b`)
	countryThenSymbol = regexp.MustCompile(`\b([A-Z]{2,3})\b[\s:]*(` + symbolAlternation + `)\s*(\d)`)
	symbolThenNumber  = regexp.MustCompile(`(` + symbolAlternation + `)\s*(\d)`)
	numberThenSymbol  = regexp.MustCompile(`(\d[\d,.\s]*?(?:\s?[KMBkmb])?)\s*(` + symbolAlternation + `)`)
	anySymbolNumber   = regexp.MustCompile(`(\p{Sc})\s*(\d)`)
)

// amountAt reads a positive, non-negated amount at offset i.
func amountAt(text string, i int) (float64, bool) {
	if negativeAt(text, i) {
		return 0, false
	}
	v, _, ok := numberAt(text, i)
	if !ok || !domain.ValidAmount(v) {
		return 0, false
	}
	return v, true
}

// newMatch builds a match, or nil when the code or amount is unusable.
func newMatch(currency string, amount float64) *domain.Money {
	m, err := domain.NewMoney(currency, amount)
	if err != nil {
		return nil
	}
	return m
}

func qualifiesAsCode(raw string) (string, bool) {
	if isWordAlias(strings.ToLower(raw)) {
		return "", false
	}
	code := strings.ToUpper(raw)
	if raw != code && !wellKnownCodes[code] {
		return "", false
	}
	return code, true
}

// MatchISOCode finds a three letter code written next to a number, code first
// ("USD 1,234") and otherwise number first ("1,234 USD"). Only the first
// qualifying occurrence is evaluated.
func MatchISOCode(text string, _ Config) *domain.Money {
	for _, m := range codeThenNumber.FindAllStringSubmatchIndex(text, -1) {
		code, ok := qualifiesAsCode(text[m[2]:m[3]])
		if !ok {
			continue
		}
		if amount, ok := amountAt(text, m[4]); ok {
			return newMatch(code, amount)
		}
		return nil
	}
	for _, m := range numberThenCode.FindAllStringSubmatchIndex(text, -1) {
		code, ok := qualifiesAsCode(text[m[4]:m[5]])
		if !ok {
			continue
		}
		if amount, ok := amountAt(text, m[2]); ok {
			return newMatch(code, amount)
		}
		return nil
	}
	return nil
}

// MatchCountrySymbol finds a country prefix glued to a symbol, as in
// "CN ¥ 35.00" or "US$5". The country decides the currency. Matches whose
// country is not known are skipped.
func MatchCountrySymbol(text string, _ Config) *domain.Money {
	for _, m := range countryThenSymbol.FindAllStringSubmatchIndex(text, -1) {
		if negativeAt(text, m[0]) {
			continue
		}
		amount, ok := amountAt(text, m[6])
		if !ok {
			continue
		}
		if code, known := countryCurrencies[text[m[2]:m[3]]]; known {
			return newMatch(code, amount)
		}
	}
	return nil
}

// MatchCurrencyWord looks for spelled out currency names and takes the first
// number within 50 characters either side of the word.
func MatchCurrencyWord(text string, _ Config) *domain.Money {
	lower := asciiLower(text)
	for _, w := range currencyWords {
		idx := strings.Index(lower, w.word)
		if idx < 0 {
			continue
		}
		from, to := windowAt(text, idx, 50, 50)
		v, at, ok := firstNumber(text, from, to)
		if !ok || !domain.ValidAmount(v) || negativeAt(text, at) {
			continue
		}
		return newMatch(w.currency, v)
	}
	return nil
}

// MatchSymbol finds a currency symbol before a number, then after one.
func MatchSymbol(text string, cfg Config) *domain.Money {
	for _, m := range symbolThenNumber.FindAllStringSubmatchIndex(text, -1) {
		if negativeAt(text, m[0]) {
			continue
		}
		amount, ok := amountAt(text, m[4])
		if !ok {
			continue
		}
		return newMatch(symbolCurrency(text, text[m[2]:m[3]], m[0], cfg), amount)
	}
	for _, m := range numberThenSymbol.FindAllStringSubmatchIndex(text, -1) {
		amount, ok := amountAt(text, m[2])
		if !ok {
			continue
		}
		return newMatch(symbolCurrency(text, text[m[4]:m[5]], m[0], cfg), amount)
	}
	return nil
}

// MatchGenericSymbol accepts any Unicode currency symbol in front of a number.
func MatchGenericSymbol(text string, cfg Config) *domain.Money {
	for _, m := range anySymbolNumber.FindAllStringSubmatchIndex(text, -1) {
		if negativeAt(text, m[0]) {
			continue
		}
		amount, ok := amountAt(text, m[4])
		if !ok {
			continue
		}
		return newMatch(symbolCurrency(text, text[m[2]:m[3]], m[0], cfg), amount)
	}
	return nil
}

func symbolCurrency(text, symbol string, at int, cfg Config) string {
	switch symbol {
	case yenSign, fullwidthYenSign:
		from, to := windowAt(text, at, 20, 50)
		if hasChinaContext(text[from:to]) {
			return "CNY"
		}
		return cfg.yenDefault()
	case yuanIdeograph:
		return "CNY"
	}
	if code, ok := symbolCurrencies[symbol]; ok {
		return code
	}
	return "USD"
}

func hasChinaContext(window string) bool {
	lower := strings.ToLower(window)
	for _, hint := range chinaIndicators {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
