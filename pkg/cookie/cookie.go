package cookie

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Manager writes and reads cookies with shared default attributes. It can
// target a server response or a client-side cookie jar.
type Manager struct {
	defaults Options
}

func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Secure:   SecureAuto,
	}
	return &Manager{defaults: applyOptions(defaults, opts)}
}

// Set writes a cookie to the response. With SecureAuto the Secure flag
// follows the request scheme so plain HTTP development keeps working.
func (m *Manager) Set(w http.ResponseWriter, r *http.Request, name, value string, opts ...Option) {
	options := applyOptions(m.defaults, opts)
	http.SetCookie(w, options.cookie(name, value, requestIsTLS(r)))
}

// Delete expires the cookie on the response.
func (m *Manager) Delete(w http.ResponseWriter, r *http.Request, name string) {
	options := applyOptions(m.defaults, nil)
	c := options.cookie(name, "", requestIsTLS(r))
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// SetInJar stores a cookie in jar for u, the way a browser would after a
// document.cookie write on that origin.
func (m *Manager) SetInJar(jar http.CookieJar, u *url.URL, name, value string, opts ...Option) error {
	if jar == nil || u == nil {
		return ErrNoJar
	}
	options := applyOptions(m.defaults, opts)
	jar.SetCookies(u, []*http.Cookie{options.cookie(name, value, u.Scheme == "https")})
	return nil
}

// DeleteInJar expires the cookie in jar for u.
func (m *Manager) DeleteInJar(jar http.CookieJar, u *url.URL, name string) error {
	if jar == nil || u == nil {
		return ErrNoJar
	}
	options := applyOptions(m.defaults, nil)
	c := options.cookie(name, "", u.Scheme == "https")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	jar.SetCookies(u, []*http.Cookie{c})
	return nil
}

// GetFromJar returns the cookie value jar would send to u.
func (m *Manager) GetFromJar(jar http.CookieJar, u *url.URL, name string) (string, error) {
	if jar == nil || u == nil {
		return "", ErrNoJar
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == name {
			return c.Value, nil
		}
	}
	return "", ErrCookieNotFound
}

func (o Options) cookie(name, value string, tls bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
	switch o.Secure {
	case SecureAlways:
		c.Secure = true
	case SecureAuto:
		c.Secure = tls
	}
	if o.MaxAge > 0 {
		c.Expires = time.Now().Add(time.Duration(o.MaxAge) * time.Second)
	}
	return c
}

func requestIsTLS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
