package apiclient

import "time"

// User is the profile returned by GET /me.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Type          string     `json:"type"`
	EmailVerified bool       `json:"email_verified,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user has the admin account type.
func (u *User) IsAdmin() bool {
	return u != nil && u.Type == "admin"
}

// AuthResponse is returned by login, register and refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// MessageResponse is the generic {"message": "..."} acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionExpired is published when an authenticated call got a 401 that a
// token refresh could not fix. Tokens are already cleared when it fires.
type SessionExpired struct {
	Path string
	At   time.Time
}
