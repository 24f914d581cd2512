package money

// Code represents a currency code (e.g., "USD", "EUR").
type Code string

// Currencies with a display symbol.
const (
	GBP Code = "GBP" // British Pound
	USD Code = "USD" // US Dollar
	EUR Code = "EUR" // Euro
	JPY Code = "JPY" // Japanese Yen
	CNY Code = "CNY" // Chinese Yuan
	INR Code = "INR" // Indian Rupee
	RUB Code = "RUB" // Russian Ruble
	KRW Code = "KRW" // South Korean Won
)

// CNY is written with its country prefix so it never reads as yen.
var symbols = map[Code]string{
	GBP: "£",
	USD: "$",
	EUR: "€",
	JPY: "¥",
	CNY: "CN¥",
	INR: "₹",
	RUB: "₽",
	KRW: "₩",
}

// Symbol returns the display symbol, or the code followed by a space.
func (c Code) Symbol() string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c) + " "
}

// IsValid reports whether c is three upper-case ASCII letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}
