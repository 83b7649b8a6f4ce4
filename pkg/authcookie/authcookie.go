package authcookie

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/golid-ai/dashkit/pkg/cookie"
)

const (
	// Name is the cookie the route gate reads before serving a page.
	Name = "app_authenticated"

	// Lifetime of the cookie once set.
	Lifetime = 30 * 24 * time.Hour

	value = "true"
)

var defaultManager = cookie.New()

// Setter records whether the current session is authenticated.
type Setter interface {
	SetAuthenticated(authenticated bool) error
}

// HasAuth reports whether r carries the authenticated cookie.
func HasAuth(r *http.Request) bool {
	v, err := defaultManager.Get(r, Name)
	return err == nil && v == value
}

// Write sets or expires the cookie on a server response.
func Write(w http.ResponseWriter, r *http.Request, authenticated bool) {
	if authenticated {
		defaultManager.Set(w, r, Name, value, cookie.WithMaxAge(int(Lifetime.Seconds())))
		return
	}
	defaultManager.Delete(w, r, Name)
}

// Jar mirrors the auth flag into a client cookie jar for one origin, so the
// next page request made with that jar passes the route gate.
type Jar struct {
	jar     http.CookieJar
	origin  *url.URL
	manager *cookie.Manager
	mu      sync.Mutex
}

// NewJar creates a Jar for origin. A nil jar gets a fresh cookiejar.
func NewJar(jar http.CookieJar, origin string, opts ...cookie.Option) (*Jar, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, err
	}
	if jar == nil {
		if jar, err = cookiejar.New(nil); err != nil {
			return nil, err
		}
	}
	return &Jar{jar: jar, origin: u, manager: cookie.New(opts...)}, nil
}

// CookieJar returns the underlying jar, for use as http.Client.Jar.
func (j *Jar) CookieJar() http.CookieJar {
	return j.jar
}

func (j *Jar) SetAuthenticated(authenticated bool) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if authenticated {
		return j.manager.SetInJar(j.jar, j.origin, Name, value, cookie.WithMaxAge(int(Lifetime.Seconds())))
	}
	return j.manager.DeleteInJar(j.jar, j.origin, Name)
}

// Authenticated reports the flag currently held in the jar.
func (j *Jar) Authenticated() bool {
	v, err := j.manager.GetFromJar(j.jar, j.origin, Name)
	return err == nil && v == value
}

// Nop discards every write.
type Nop struct{}

func (Nop) SetAuthenticated(bool) error { return nil }
