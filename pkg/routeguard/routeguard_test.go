package routeguard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/golid-ai/dashkit/pkg/authcookie"
	"github.com/golid-ai/dashkit/pkg/routeguard"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	routes := []string{"/profile", "/dashboard"}
	tests := []struct {
		path string
		want bool
	}{
		{"/profile", true},
		{"/profile/", true},
		{"/profile/edit", true},
		{"/profile-external", false},
		{"/profiles", false},
		{"/dashboard/users/1", true},
		{"/", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, routeguard.Match(tt.path, routes))
		})
	}

	assert.False(t, routeguard.Match("/x", []string{""}))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := routeguard.Middleware()(ok)

	tests := []struct {
		name         string
		path         string
		cookie       bool
		wantStatus   int
		wantLocation string
	}{
		{"private anonymous", "/dashboard", false, http.StatusFound, "/login?redirectTo=%2Fdashboard"},
		{"private subpath anonymous", "/settings/profile", false, http.StatusFound, "/login?redirectTo=%2Fsettings%2Fprofile"},
		{"private signed in", "/dashboard", true, http.StatusOK, ""},
		{"auth route signed in", "/login", true, http.StatusFound, "/dashboard"},
		{"auth subpath signed in", "/reset-password/abc", true, http.StatusFound, "/dashboard"},
		{"auth route signed in with target", "/login?redirectTo=%2Fsettings", true, http.StatusFound, "/settings"},
		{"auth route signed in with foreign target", "/login?redirectTo=%2F%2Fevil.io", true, http.StatusFound, "/dashboard"},
		{"auth route anonymous", "/signup", false, http.StatusOK, ""},
		{"public anonymous", "/", false, http.StatusOK, ""},
		{"public signed in", "/verify-email", true, http.StatusOK, ""},
		{"lookalike path", "/dashboard-public", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: authcookie.Name, Value: "true"})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestMiddlewareOptions(t *testing.T) {
	t.Parallel()

	h := routeguard.Middleware(
		routeguard.WithPrivateRoutes("/app"),
		routeguard.WithAuthRoutes("/signin"),
		routeguard.WithLoginPath("/signin"),
		routeguard.WithHomePath("/app"),
		routeguard.WithAuthCheck(func(r *http.Request) bool { return r.Header.Get("X-Auth") == "1" }),
	)(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/x", nil))
	assert.Equal(t, "/signin?redirectTo=%2Fapp%2Fx", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/signin", nil)
	req.Header.Set("X-Auth", "1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/app", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	h := routeguard.NewFromConfig(routeguard.Config{
		PrivateRoutes: []string{"/admin"},
		LoginPath:     "/enter",
	})(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, "/enter?redirectTo=%2Fadmin", rec.Header().Get("Location"))
}

func TestSignedInRedirectRejectsControlCharacters(t *testing.T) {
	t.Parallel()

	h := routeguard.Middleware()(http.NotFoundHandler())

	for _, raw := range []string{"%2F%09%2Fevil.example", "%2F%0A%2Fevil.example"} {
		req := httptest.NewRequest(http.MethodGet, "/login?redirectTo="+raw, nil)
		req.AddCookie(&http.Cookie{Name: authcookie.Name, Value: "true"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code, raw)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"), raw)
	}
}

func TestRedirectTarget(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/login?redirectTo=%2Fsettings":          "/settings",
		"/login":                                  "/dashboard",
		"/login?redirectTo=https%3A%2F%2Fevil.io": "/dashboard",
		"/login?redirectTo=%2F%2Fevil.io":         "/dashboard",
		"/login?redirectTo=%2F%5Cevil.io":         "/dashboard",
		"/login?redirectTo=%2F%09%2Fevil.example": "/dashboard",
		"/login?redirectTo=%2F%0A%2Fevil.example": "/dashboard",
		"/login?redirectTo=%2F%0D%2Fevil.example": "/dashboard",
		"/login?redirectTo=%2F%7F%2Fevil.example": "/dashboard",
		"/login?redirectTo=%2F%00":                "/dashboard",
		"/login?redirectTo=javascript%3Aalert(1)": "/dashboard",
		"/login?redirectTo=%2Fa%2F..%2F%2Fevil.io": "/evil.io",
		"/login?redirectTo=%2Fsettings%2F.%2Fprofile%3Ftab%3D2": "/settings/profile?tab=2",
	}
	for target, want := range tests {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, routeguard.RedirectTarget(req, "/dashboard"), target)
	}
}
