package cookie

import "net/http"

// SecureMode controls the Secure attribute.
type SecureMode int

const (
	// SecureAuto sets Secure only when the cookie travels over TLS.
	SecureAuto SecureMode = iota
	SecureAlways
	SecureNever
)

type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   SecureMode
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets MaxAge and a matching Expires.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

func WithSecure(mode SecureMode) Option {
	return func(o *Options) { o.Secure = mode }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HttpOnly = httpOnly }
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) { o.SameSite = sameSite }
}

// applyOptions returns a copy of base with opts applied. base is not modified.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}
