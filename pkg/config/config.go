// Package config loads the application configuration from the environment and
// optional .env files.
package config

import (
	"time"
)

// Log configures the process logger.
type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[fxconvert]"`
	// File receives log output for the terminal screen, which owns stdout.
	File string `envconfig:"FILE" default:"fxconvert.log"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

// RateLimit bounds inbound HTTP requests per client.
type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// ExchangeRateProvider selects and tunes the upstream rate API. ApiUrl
// overrides the provider's public endpoint.
//
//revive:disable
type ExchangeRateProvider struct {
	Name              string        `envconfig:"NAME" default:"frankfurter"`
	ApiKey            string        `envconfig:"API_KEY"`
	ApiUrl            string        `envconfig:"API_URL"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RequestsPerMinute int           `envconfig:"REQUESTS_PER_MINUTE" default:"60"`
	Burst             int           `envconfig:"BURST" default:"10"`
}

//revive:enable

// ExchangeRateCache configures lookup caching. Driver is none, memory or redis.
type ExchangeRateCache struct {
	Driver string        `envconfig:"DRIVER" default:"none"`
	TTL    time.Duration `envconfig:"TTL" default:"15m"`
	Prefix string        `envconfig:"PREFIX" default:"fxc:lookup:"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type App struct {
	Env                  string                `envconfig:"APP_ENV" default:"development"`
	Server               *Server               `envconfig:"SERVER"`
	Log                  *Log                  `envconfig:"LOG"`
	RateLimit            *RateLimit            `envconfig:"RATE_LIMIT"`
	ExchangeRateProvider *ExchangeRateProvider `envconfig:"EXCHANGE_RATE_PROVIDER"`
	ExchangeRateCache    *ExchangeRateCache    `envconfig:"EXCHANGE_RATE_CACHE"`
	Redis                *Redis                `envconfig:"REDIS"`
}
