// Package parser extracts a currency amount from free-form text.
//
// Rules run in a fixed priority order and the first one that yields a
// positive, finite amount decides the result:
//
//  1. an ISO code next to a number ("USD 1,234", "1,234 usd")
//  2. a country prefix in front of a symbol ("CN ¥ 35.00", "US$5")
//  3. a currency word near a number ("20 pounds")
//  4. a known symbol before or after a number ("$1.2M", "500元")
//  5. any Unicode currency symbol before a number
package parser

import (
	"strings"

	"github.com/amirasaad/quickcurrency/pkg/domain"
)

// Config carries the caller's preferences that influence parsing.
type Config struct {
	// AmbiguousYenDefault is used for ¥ when nothing around it hints at China.
	// Empty means JPY.
	AmbiguousYenDefault string
}

func (c Config) yenDefault() string {
	code := strings.ToUpper(strings.TrimSpace(c.AmbiguousYenDefault))
	if code == "" {
		return "JPY"
	}
	return code
}

// Rule names a parsing rule.
type Rule string

const (
	RuleNone          Rule = ""
	RuleISOCode       Rule = "iso_code"
	RuleCountryPrefix Rule = "country_prefix"
	RuleCurrencyWord  Rule = "currency_word"
	RuleSymbol        Rule = "symbol"
	RuleGenericSymbol Rule = "generic_symbol"
)

// Matcher inspects normalized text and returns a match or nil.
type Matcher func(text string, cfg Config) *domain.Money

type rule struct {
	name  Rule
	match Matcher
}

var rules = []rule{
	{RuleISOCode, MatchISOCode},
	{RuleCountryPrefix, MatchCountrySymbol},
	{RuleCurrencyWord, MatchCurrencyWord},
	{RuleSymbol, MatchSymbol},
	{RuleGenericSymbol, MatchGenericSymbol},
}

// Parse returns the currency amount found in text, or nil.
func Parse(text string, cfg Config) *domain.Money {
	m, _ := Explain(text, cfg)
	return m
}

// Explain is Parse that also reports which rule produced the match.
func Explain(text string, cfg Config) (m *domain.Money, r Rule) {
	defer func() {
		if recover() != nil {
			m, r = nil, RuleNone
		}
	}()
	normalized := Normalize(text)
	if normalized == "" {
		return nil, RuleNone
	}
	for _, rl := range rules {
		if found := rl.match(normalized, cfg); found != nil {
			return found, rl.name
		}
	}
	return nil, RuleNone
}
