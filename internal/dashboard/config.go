package dashboard

import "time"

type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"dashboard"`
	Title       string `env:"APP_TITLE" envDefault:"Dashboard"`
	// BackendURL is the API origin proxied under /api.
	BackendURL string `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	// StaticDir holds the built client shell. index.html is served for any
	// path without a matching file.
	StaticDir string `env:"STATIC_DIR" envDefault:"./public"`
	DemoMode  bool   `env:"DEMO_MODE" envDefault:"false"`

	FeatureRefresh time.Duration `env:"FEATURE_REFRESH" envDefault:"5m"`
}
