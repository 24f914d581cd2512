package domain

import (
	"encoding/json"
	"time"
)

// ConversionRequest asks for Amount of From expressed in To.
// ProxyURL is a template containing {FROM}, {TO} and {AMOUNT} placeholders.
type ConversionRequest struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	UseProxy        bool    `json:"useProxy"`
	ProxyURL        string  `json:"proxyUrl"`
	CacheTTLMinutes int     `json:"cacheTTL"`
}

// ConversionResult carries either a converted value or an error message, never both.
type ConversionResult struct {
	Result float64 `json:"result"`
	Cached bool    `json:"cached"`
	Rate   float64 `json:"rate,omitempty"`
	Source string  `json:"source,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// MarshalJSON writes {"error": ...} for failures and the value fields otherwise.
func (r ConversionResult) MarshalJSON() ([]byte, error) {
	if !r.Ok() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	type plain ConversionResult
	return json.Marshal(plain(r))
}

// Succeeded builds a success result.
func Succeeded(rate, amount float64, cached bool, source string) ConversionResult {
	return ConversionResult{
		Result: rate * amount,
		Cached: cached,
		Rate:   rate,
		Source: source,
	}
}

// Failed builds an error result from err's message.
func Failed(err error) ConversionResult {
	return ConversionResult{Error: err.Error()}
}

// Ok reports whether the result is the success variant.
func (r ConversionResult) Ok() bool {
	return r.Error == ""
}

// CacheEntry is a stored rate for the ordered pair in Key ("FROM:TO").
type CacheEntry struct {
	Key       string    `json:"key"`
	Rate      float64   `json:"rate"`
	Timestamp time.Time `json:"timestamp"`
}

// PairKey returns the cache key for an ordered currency pair.
func PairKey(from, to string) string {
	return from + ":" + to
}
