// Package authcookie manages the app_authenticated cookie.
//
// The cookie is a plain "true" flag with no secret in it. It only lets the
// server-side route gate decide between the login page and the dashboard
// before any client code runs; API calls are authorized by bearer tokens.
package authcookie
