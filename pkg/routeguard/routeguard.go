package routeguard

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/golid-ai/dashkit/pkg/authcookie"
	"github.com/golid-ai/dashkit/pkg/logger"
)

var (
	DefaultPrivateRoutes = []string{"/dashboard", "/settings", "/components"}
	DefaultAuthRoutes    = []string{"/login", "/signup", "/forgot-password", "/reset-password"}
)

const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/dashboard"

	// RedirectParam carries the originally requested path to the login page.
	RedirectParam = "redirectTo"
)

type options struct {
	privateRoutes []string
	authRoutes    []string
	loginPath     string
	homePath      string
	isAuthed      func(*http.Request) bool
	logger        *slog.Logger
}

type Option func(*options)

func WithPrivateRoutes(routes ...string) Option {
	return func(o *options) { o.privateRoutes = routes }
}

func WithAuthRoutes(routes ...string) Option {
	return func(o *options) { o.authRoutes = routes }
}

func WithLoginPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.loginPath = path
		}
	}
}

// WithHomePath sets where signed-in visitors of auth routes are sent.
func WithHomePath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.homePath = path
		}
	}
}

// WithAuthCheck replaces the app_authenticated cookie check.
func WithAuthCheck(fn func(*http.Request) bool) Option {
	return func(o *options) {
		if fn != nil {
			o.isAuthed = fn
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Middleware redirects before a page is served: visitors without the auth
// cookie are sent from private routes to the login page, and visitors with
// it are sent from auth routes to their redirectTo target or the home page. Everything else passes
// through.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	o := options{
		privateRoutes: DefaultPrivateRoutes,
		authRoutes:    DefaultAuthRoutes,
		loginPath:     DefaultLoginPath,
		homePath:      DefaultHomePath,
		isAuthed:      authcookie.HasAuth,
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if Match(path, o.privateRoutes) && !o.isAuthed(r) {
				target := o.loginPath + "?" + RedirectParam + "=" + url.QueryEscape(path)
				o.logger.DebugContext(r.Context(), "redirecting anonymous visitor", slog.String("path", path))
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			if Match(path, o.authRoutes) && o.isAuthed(r) {
				o.logger.DebugContext(r.Context(), "redirecting signed-in visitor", slog.String("path", path))
				http.Redirect(w, r, RedirectTarget(r, o.homePath), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Match reports whether path is one of routes or below one of them.
// "/profile" matches "/profile" and "/profile/edit" but not
// "/profile-external".
func Match(path string, routes []string) bool {
	for _, route := range routes {
		if route == "" {
			continue
		}
		if path == route {
			return true
		}
		prefix := route
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RedirectTarget returns the validated post-login destination from r, or
// fallback. Only same-site absolute paths are accepted; the result is
// cleaned so it can never be read as a network-path reference.
func RedirectTarget(r *http.Request, fallback string) string {
	target, ok := localPath(r.URL.Query().Get(RedirectParam))
	if !ok {
		return fallback
	}
	return target
}

func localPath(target string) (string, bool) {
	if target == "" || target[0] != '/' {
		return "", false
	}
	// Browsers drop tabs and newlines, turning "/\t/host" into "//host".
	for i := 0; i < len(target); i++ {
		if c := target[i]; c < 0x20 || c == 0x7f || c == '\\' {
			return "", false
		}
	}
	if strings.HasPrefix(target, "//") {
		return "", false
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}

	clean := path.Clean(u.Path)
	if !strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "//") {
		return "", false
	}
	if u.RawQuery != "" {
		clean += "?" + u.RawQuery
	}
	return clean, true
}
