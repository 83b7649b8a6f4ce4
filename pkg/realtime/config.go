package realtime

import (
	"time"

	"github.com/golid-ai/dashkit/pkg/apiclient"
)

type Config struct {
	BackoffBase   time.Duration `env:"SSE_BACKOFF_BASE" envDefault:"1s"`
	BackoffMax    time.Duration `env:"SSE_BACKOFF_MAX" envDefault:"30s"`
	JitterPercent uint64        `env:"SSE_BACKOFF_JITTER" envDefault:"20"`
}

// NewFromConfig creates a Client from cfg. Options are applied after the
// config values.
func NewFromConfig(api *apiclient.Client, cfg Config, opts ...Option) *Client {
	configOpts := []Option{
		WithBackoff(cfg.BackoffBase, cfg.BackoffMax),
		WithJitterPercent(cfg.JitterPercent),
	}
	return New(api, append(configOpts, opts...)...)
}
