package config

import (
	"strings"
	"time"
)

// UpstreamConfig contains the platform backend API configuration. The
// dashboard holds no data of its own; every collection round-trips
// through this API.
type UpstreamConfig struct {
	// BaseURL is the backend REST API root (e.g. "https://api.example.com/api").
	BaseURL string `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:5000/api"`

	// Timeout bounds each backend call.
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	// SMSBalanceURL is the third-party SMS gateway balance endpoint.
	// Empty disables the balance feature.
	SMSBalanceURL string `env:"SMS_BALANCE_URL" envDefault:""`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	u.BaseURL = strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
	u.SMSBalanceURL = strings.TrimSpace(u.SMSBalanceURL)
	if u.Timeout <= 0 {
		u.Timeout = 30 * time.Second
	}
}
