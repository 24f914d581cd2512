package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/amirasaad/quickcurrency/pkg/domain"
)

const (
	MinCacheTTLMinutes = 5
	MaxCacheTTLMinutes = 60
	MaxPrecision       = 8
)

// Preferences are the user facing settings read by every conversion.
type Preferences struct {
	TargetCurrency      string `json:"targetCurrency" envconfig:"TARGET_CURRENCY" default:"GBP"`
	Precision           int    `json:"precision" envconfig:"PRECISION" default:"2"`
	CacheTTLMinutes     int    `json:"cacheTTL" envconfig:"CACHE_TTL" default:"15"`
	UseProxy            bool   `json:"useProxy" envconfig:"USE_PROXY" default:"false"`
	ProxyURL            string `json:"proxyUrl" envconfig:"PROXY_URL"`
	AmbiguousYenDefault string `json:"ambiguousYenDefault" envconfig:"AMBIGUOUS_YEN_DEFAULT" default:"JPY"`
}

// DefaultPreferences mirrors the envconfig defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		TargetCurrency:      "GBP",
		Precision:           2,
		CacheTTLMinutes:     15,
		AmbiguousYenDefault: "JPY",
	}
}

// Normalize upper-cases codes and trims the proxy template.
func (p Preferences) Normalize() Preferences {
	p.TargetCurrency = strings.ToUpper(strings.TrimSpace(p.TargetCurrency))
	p.AmbiguousYenDefault = strings.ToUpper(strings.TrimSpace(p.AmbiguousYenDefault))
	p.ProxyURL = strings.TrimSpace(p.ProxyURL)
	return p
}

// Validate checks the preferences the same way the settings form does.
func (p Preferences) Validate() error {
	if !isCurrencyCode(p.TargetCurrency) {
		return fmt.Errorf("target currency %q: %w", p.TargetCurrency, domain.ErrInvalidCurrencyCode)
	}
	if p.Precision < 0 || p.Precision > MaxPrecision {
		return domain.ErrInvalidPrecision
	}
	if p.CacheTTLMinutes < MinCacheTTLMinutes || p.CacheTTLMinutes > MaxCacheTTLMinutes {
		return domain.ErrInvalidTTL
	}
	if p.UseProxy && p.ProxyURL == "" {
		return domain.ErrProxyURLRequired
	}
	if p.AmbiguousYenDefault != "JPY" && p.AmbiguousYenDefault != "CNY" {
		return domain.ErrInvalidYenDefault
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// PreferenceStore hands out immutable snapshots of the current preferences.
type PreferenceStore struct {
	current atomic.Pointer[Preferences]
}

// NewPreferenceStore starts from initial, which must be valid.
func NewPreferenceStore(initial Preferences) (*PreferenceStore, error) {
	initial = initial.Normalize()
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	s := &PreferenceStore{}
	s.current.Store(&initial)
	return s, nil
}

// Current returns a copy of the active preferences.
func (s *PreferenceStore) Current() Preferences {
	return *s.current.Load()
}

// Update validates p and makes it the active snapshot.
func (s *PreferenceStore) Update(p Preferences) (Preferences, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return s.Current(), err
	}
	s.current.Store(&p)
	return p, nil
}
