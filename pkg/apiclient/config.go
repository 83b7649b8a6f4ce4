package apiclient

import "time"

type Config struct {
	BaseURL string        `env:"API_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
}

// NewFromConfig creates a Client from cfg. Options are applied after the
// config values.
func NewFromConfig(cfg Config, opts ...Option) *Client {
	configOpts := make([]Option, 0, 1+len(opts))
	if cfg.Timeout > 0 {
		configOpts = append(configOpts, WithTimeout(cfg.Timeout))
	}
	return New(cfg.BaseURL, append(configOpts, opts...)...)
}
