// Package tokens persists the access/refresh token pair.
//
// The API client reads the access token before every authenticated call and
// writes a new pair after a refresh; the auth store saves the pair after
// login or signup and clears it on logout. The presence of an access token is
// the only signal the client uses to decide whether a call is authenticated.
//
// MemoryStore serves tests and single-process tools. RedisStore lets several
// processes share one login.
package tokens
