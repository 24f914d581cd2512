package parser

// Symbol sets recognised next to a number. Compound symbols are listed
// before the bare ones so the longest form wins at the same position.
const symbolAlternation = `A\$|C\$|NZ\$|HK\$|S\$|[¥￥$€£₹₽₩元]`

const (
	yenSign          = "¥"
	fullwidthYenSign = "￥"
	yuanIdeograph    = "元"
)

var symbolCurrencies = map[string]string{
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
	"₹":   "INR",
	"₽":   "RUB",
	"₩":   "KRW",
	"元":   "CNY",
	"A$":  "AUD",
	"C$":  "CAD",
	"NZ$": "NZD",
	"HK$": "HKD",
	"S$":  "SGD",
}

var countryCurrencies = map[string]string{
	"CN": "CNY",
	"HK": "HKD",
	"SG": "SGD",
	"AU": "AUD",
	"CA": "CAD",
	"NZ": "NZD",
	"US": "USD",
	"GB": "GBP",
	"UK": "GBP",
	"EU": "EUR",
	"JP": "JPY",
	"IN": "INR",
	"RU": "RUB",
	"KR": "KRW",
}

type currencyWord struct {
	word     string
	currency string
}

// currencyWords is scanned in order; the first word present in the text wins.
var currencyWords = []currencyWord{
	{"yuan", "CNY"},
	{"renminbi", "CNY"},
	{"rmb", "CNY"},
	{"yen", "JPY"},
	{"pound", "GBP"},
	{"sterling", "GBP"},
	{"euro", "EUR"},
	{"dollar", "USD"},
	{"rupee", "INR"},
	{"ruble", "RUB"},
	{"rouble", "RUB"},
	{"won", "KRW"},
}

var chinaIndicators = []string{"cn", "cny", "yuan", "rmb", "renminbi", "china", "chinese"}

// wellKnownCodes lets lower-case ISO codes such as "usd 20" qualify as codes.
// Upper-case three letter tokens qualify whether or not they are listed here.
var wellKnownCodes = map[string]bool{
	"AED": true, "ARS": true, "AUD": true, "BGN": true, "BRL": true, "CAD": true,
	"CHF": true, "CLP": true, "CNY": true, "COP": true, "CZK": true, "DKK": true,
	"EGP": true, "EUR": true, "GBP": true, "HKD": true, "HUF": true, "IDR": true,
	"ILS": true, "INR": true, "ISK": true, "JPY": true, "KRW": true, "MXN": true,
	"MYR": true, "NOK": true, "NZD": true, "PHP": true, "PLN": true, "RON": true,
	"RUB": true, "SAR": true, "SEK": true, "SGD": true, "THB": true, "TRY": true,
	"TWD": true, "UAH": true, "USD": true, "VND": true, "ZAR": true,
}

func isWordAlias(lower string) bool {
	for _, w := range currencyWords {
		if w.word == lower {
			return true
		}
	}
	return false
}
