package routeguard

import "net/http"

type Config struct {
	PrivateRoutes []string `env:"PRIVATE_ROUTES" envSeparator:"," envDefault:"/dashboard,/settings,/components"`
	AuthRoutes    []string `env:"AUTH_ROUTES" envSeparator:"," envDefault:"/login,/signup,/forgot-password,/reset-password"`
	LoginPath     string   `env:"LOGIN_PATH" envDefault:"/login"`
	HomePath      string   `env:"HOME_PATH" envDefault:"/dashboard"`
}

// NewFromConfig builds the middleware from cfg. Options are applied after
// the config values.
func NewFromConfig(cfg Config, opts ...Option) func(http.Handler) http.Handler {
	configOpts := []Option{
		WithLoginPath(cfg.LoginPath),
		WithHomePath(cfg.HomePath),
	}
	if len(cfg.PrivateRoutes) > 0 {
		configOpts = append(configOpts, WithPrivateRoutes(cfg.PrivateRoutes...))
	}
	if len(cfg.AuthRoutes) > 0 {
		configOpts = append(configOpts, WithAuthRoutes(cfg.AuthRoutes...))
	}
	return Middleware(append(configOpts, opts...)...)
}
