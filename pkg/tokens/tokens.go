package tokens

import "context"

// Pair is the access/refresh token pair issued by the auth endpoints.
type Pair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// IsZero reports whether no access token is held. The access token alone
// decides whether API calls are authenticated.
func (p Pair) IsZero() bool {
	return p.Access == ""
}

// Store persists the current token pair.
// Load returns a zero Pair and nil error when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Pair, error)
	Save(ctx context.Context, p Pair) error
	Clear(ctx context.Context) error
}
