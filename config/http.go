package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// WebhookSecret guards the vendor webhook endpoint. Requests must carry
	// it in the X-Webhook-Secret header. Leave empty to disable the check.
	WebhookSecret string `env:"WEBHOOK_SECRET" envDefault:""`
}
