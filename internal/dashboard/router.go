package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/clientip"
	"github.com/golid-ai/dashkit/pkg/environment"
	"github.com/golid-ai/dashkit/pkg/feature"
	"github.com/golid-ai/dashkit/pkg/httpserver"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/requestid"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Config Config
	Logger *slog.Logger
	// API is used for readiness probing only.
	API   *apiclient.Client
	Flags *feature.Flags
	// Guard wraps page routes, normally routeguard.Middleware.
	Guard func(http.Handler) http.Handler
	// Shell renders the page when StaticDir has no build. Defaults to
	// DefaultShell.
	Shell func(ShellParams) templ.Component
}

// AppConfig is the runtime configuration served to the client shell.
type AppConfig struct {
	DemoMode bool            `json:"demo_mode"`
	Features map[string]bool `json:"features"`
}

// NewRouter builds the dashboard's HTTP handler.
func NewRouter(deps Deps) (http.Handler, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	if deps.Guard == nil {
		deps.Guard = func(next http.Handler) http.Handler { return next }
	}

	backend, err := url.Parse(deps.Config.BackendURL)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(
		clientip.Middleware,
		requestid.Middleware,
		environment.Middleware(environment.Parse(deps.Config.Env)),
		requestLogger(log),
		middleware.Recoverer,
	)

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, backendReady(deps.API)))
	r.Get("/app-config.json", appConfigHandler(deps))
	r.Handle("/api/*", newProxy(backend, log))

	r.Group(func(r chi.Router) {
		r.Use(deps.Guard)
		r.Handle("/*", newShell(deps.Config.StaticDir, deps.Shell, ShellParams{
			Title:    deps.Config.Title,
			DemoMode: deps.Config.DemoMode,
		}, log))
	})

	return r, nil
}

// backendReady fails only when the API cannot be reached. Any HTTP answer,
// error statuses included, means the backend is up.
func backendReady(api *apiclient.Client) httpserver.Check {
	return func(ctx context.Context) error {
		if api == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		_, err := api.Features().List(ctx)
		if err != nil && (apiclient.IsUnreachable(err) || ctx.Err() != nil) {
			return err
		}
		return nil
	}
}

func appConfigHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := AppConfig{DemoMode: deps.Config.DemoMode, Features: map[string]bool{}}
		if deps.Flags != nil {
			cfg.Features = deps.Flags.Snapshot()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(cfg)
	}
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.DebugContext(r.Context(), "request",
				logger.Endpoint(r.Method, r.URL.Path),
				logger.Status(ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
