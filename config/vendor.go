package config

import (
	"strings"
	"time"
)

// VendorConfig contains FieldForms vendor API configuration.
type VendorConfig struct {
	BaseURL string        `env:"BASE_URL"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// DispatchIDPath is the JMESPath expression locating the dispatch
	// identifier in the vendor's dispatch response. The vendor has moved
	// this field across API revisions.
	DispatchIDPath string `env:"DISPATCH_ID_PATH" envDefault:"dispatch.id"`

	// DisplayNamePath locates a user's display name in the vendor's user
	// lookup response.
	DisplayNamePath string `env:"DISPLAY_NAME_PATH" envDefault:"user.displayName"`
}

// Sanitize normalises vendor configuration values.
func (c *VendorConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// IsConfigured returns true when the vendor client can make outbound calls.
func (c *VendorConfig) IsConfigured() bool {
	return c.BaseURL != ""
}
