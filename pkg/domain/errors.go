package domain

import "errors"

// Conversion errors
var (
	// ErrInvalidRequest is returned when a conversion request fails validation.
	ErrInvalidRequest = errors.New("Invalid conversion parameters")
	// ErrInvalidAmount is returned when an amount is not a positive finite number.
	ErrInvalidAmount = errors.New("amount must be a positive finite number")
	// ErrMissingCurrency is returned when a currency code is empty.
	ErrMissingCurrency = errors.New("currency code is required")
	// ErrExchangeRateUnavailable is returned when neither the proxy nor any provider produced a rate.
	ErrExchangeRateUnavailable = errors.New("Could not fetch exchange rate from any API")
	// ErrConversionTimeout is returned when a conversion misses its overall deadline.
	ErrConversionTimeout = errors.New("Conversion timeout")
	// ErrConversionFailed is returned when a conversion aborts unexpectedly.
	ErrConversionFailed = errors.New("Conversion failed")
	// ErrNoCurrencyFound is returned when text contains no recognisable amount.
	ErrNoCurrencyFound = errors.New("no currency amount found")
	// ErrAlreadyTargetCurrency is returned when quoted text is already in the target currency.
	ErrAlreadyTargetCurrency = errors.New("amount is already in the target currency")
)

// Preference errors
var (
	ErrInvalidTTL          = errors.New("cache TTL must be between 5 and 60 minutes")
	ErrProxyURLRequired    = errors.New("proxy URL is required when the proxy is enabled")
	ErrInvalidPrecision    = errors.New("precision must be between 0 and 8")
	ErrInvalidCurrencyCode = errors.New("currency code must be three letters")
	ErrInvalidYenDefault   = errors.New("ambiguous yen default must be JPY or CNY")
)
