package config

import (
	"time"
)

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Cache selects where converted rates are kept.
// Backend is one of memory, redis, sqlite or postgres.
type Cache struct {
	Backend string `envconfig:"BACKEND" default:"memory"`
	DSN     string `envconfig:"DSN" default:"quickcurrency.db"`
	Prefix  string `envconfig:"PREFIX" default:"qc:rate:"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

//revive:disable
type Providers struct {
	FrankfurterURL      string        `envconfig:"FRANKFURTER_URL" default:"https://api.frankfurter.dev"`
	ExchangeRateHostURL string        `envconfig:"EXCHANGERATE_HOST_URL" default:"https://api.exchangerate.host"`
	ExchangeRateHostKey string        `envconfig:"EXCHANGERATE_HOST_ACCESS_KEY"`
	ExchangeRateApiURL  string        `envconfig:"EXCHANGERATE_API_URL" default:"https://api.exchangerate-api.com"`
	Timeout             time.Duration `envconfig:"TIMEOUT" default:"5s"`
	ProxyTimeout        time.Duration `envconfig:"PROXY_TIMEOUT" default:"8s"`
	RequestsPerMinute   int           `envconfig:"REQUESTS_PER_MINUTE" default:"120"`
	BurstSize           int           `envconfig:"BURST_SIZE" default:"10"`
	UserAgent           string        `envconfig:"USER_AGENT" default:"quickcurrency/1.0"`
}

//revive:enable

type Conversion struct {
	Deadline time.Duration `envconfig:"DEADLINE" default:"10s"`
}

type Watch struct {
	Interval time.Duration `envconfig:"INTERVAL" default:"500ms"`
	MinGap   time.Duration `envconfig:"MIN_GAP" default:"300ms"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[quickcurrency]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env         string       `envconfig:"APP_ENV" default:"development"`
	Server      *Server      `envconfig:"SERVER"`
	Log         *Log         `envconfig:"LOG"`
	Cache       *Cache       `envconfig:"CACHE"`
	Redis       *Redis       `envconfig:"REDIS"`
	Providers   *Providers   `envconfig:"PROVIDER"`
	Conversion  *Conversion  `envconfig:"CONVERSION"`
	Watch       *Watch       `envconfig:"WATCH"`
	Preferences *Preferences `envconfig:"PREF"`
	RateLimit   *RateLimit   `envconfig:"RATE_LIMIT"`
}
