package tokens

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Backend string        `env:"TOKEN_STORE" envDefault:"memory"` // memory or redis
	Key     string        `env:"TOKEN_KEY" envDefault:"app_tokens"`
	TTL     time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

// NewFromConfig builds the configured Store. client is required for the
// redis backend and ignored otherwise.
func NewFromConfig(cfg Config, client redis.Cmdable) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("%w: redis backend needs a client", ErrUnknownBackend)
		}
		return NewRedisStore(client, cfg.Key, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
