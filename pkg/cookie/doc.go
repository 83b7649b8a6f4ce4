// Package cookie writes and reads cookies with a shared set of default
// attributes (Path "/", SameSite=Lax, Secure only over TLS).
//
// The same Manager serves two sides: Set/Delete/Get work on an
// http.ResponseWriter and *http.Request in the dashboard server, while
// SetInJar/DeleteInJar/GetFromJar work on an http.CookieJar, which is how a
// Go client mirrors state into cookies that later requests to the dashboard
// carry.
//
//	m := cookie.New()
//	m.Set(w, r, "app_authenticated", "true", cookie.WithMaxAge(30*24*60*60))
//
// Secure defaults to SecureAuto: set when the request arrived over TLS (or
// through a proxy reporting X-Forwarded-Proto: https), or when the jar URL is
// https.
package cookie
