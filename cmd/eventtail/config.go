package main

type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"`
	// Origin is the dashboard the auth cookie is scoped to.
	Origin   string   `env:"DASHBOARD_URL" envDefault:"http://localhost:3000"`
	Email    string   `env:"EVENTTAIL_EMAIL"`
	Password string   `env:"EVENTTAIL_PASSWORD"`
	Events   []string `env:"EVENTTAIL_EVENTS" envSeparator:"," envDefault:"notification"`
	Demo     bool     `env:"EVENTTAIL_DEMO"`
	Logout   bool     `env:"EVENTTAIL_LOGOUT"`
}
