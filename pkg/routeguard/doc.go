// Package routeguard decides page redirects from the app_authenticated
// cookie before any page is rendered, so anonymous visitors never receive
// private pages.
//
//	r := chi.NewRouter()
//	r.Use(routeguard.Middleware())
//
// The cookie is only a hint for navigation. API access is still authorized
// per request by bearer tokens.
package routeguard
