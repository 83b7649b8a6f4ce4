package authstate

import (
	"strings"

	"github.com/golid-ai/dashkit/pkg/apiclient"
)

// State is an immutable snapshot of the session.
type State struct {
	User        *apiclient.User
	Loading     bool
	Initialized bool
	// Error is the last login or signup failure, ready for display.
	Error string
}

func (s State) IsAuthenticated() bool {
	return s.User != nil
}

func (s State) IsAdmin() bool {
	return s.User.IsAdmin()
}

// DisplayName is "First Last" with empty parts dropped, or "Account".
func (s State) DisplayName() string {
	return DisplayName(s.User)
}

func DisplayName(u *apiclient.User) string {
	if u == nil {
		return "Account"
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{u.FirstName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Account"
	}
	return strings.Join(parts, " ")
}

// LoginCredentials is the login form input.
type LoginCredentials struct {
	Email    string
	Password string
}

// SignupData is the signup form input.
type SignupData struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}
