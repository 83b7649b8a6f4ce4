package apiclient

import (
	"context"
	"net/url"
)

// AuthAPI groups the /auth endpoints.
type AuthAPI struct {
	c *Client
}

// Auth returns the /auth endpoint group.
func (c *Client) Auth() AuthAPI {
	return AuthAPI{c: c}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetTokenStatus is returned by VerifyResetToken.
type ResetTokenStatus struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}

func (a AuthAPI) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.c.Post(ctx, "/auth/register", req, &resp, SkipAuth()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := a.c.Post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp, SkipAuth())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges refreshToken without touching the token store. Use
// Client.RefreshTokens to refresh the stored pair.
func (a AuthAPI) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	var resp AuthResponse
	err := a.c.Post(ctx, refreshPath, refreshRequest{RefreshToken: refreshToken}, &resp, SkipAuth())
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) Logout(ctx context.Context) error {
	return a.c.Post(ctx, "/auth/logout", nil, nil)
}

func (a AuthAPI) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var resp MessageResponse
	body := map[string]string{"email": email}
	if err := a.c.Post(ctx, "/auth/forgot-password", body, &resp, SkipAuth()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) VerifyResetToken(ctx context.Context, token string) (*ResetTokenStatus, error) {
	var resp ResetTokenStatus
	path := "/auth/verify-reset-token?token=" + url.QueryEscape(token)
	if err := a.c.Get(ctx, path, &resp, SkipAuth()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) ResetPassword(ctx context.Context, token, password string) (*MessageResponse, error) {
	var resp MessageResponse
	body := map[string]string{"token": token, "password": password}
	if err := a.c.Post(ctx, "/auth/reset-password", body, &resp, SkipAuth()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	var resp MessageResponse
	path := "/auth/verify-email?token=" + url.QueryEscape(token)
	if err := a.c.Get(ctx, path, &resp, SkipAuth()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	var resp MessageResponse
	body := map[string]string{"email": email}
	if err := a.c.Post(ctx, "/auth/resend-verification", body, &resp, SkipAuth()); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a AuthAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*MessageResponse, error) {
	var resp MessageResponse
	body := map[string]string{"current_password": currentPassword, "new_password": newPassword}
	if err := a.c.Put(ctx, "/auth/password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
