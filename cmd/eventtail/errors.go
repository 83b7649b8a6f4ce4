package main

import "errors"

var (
	ErrCredentialsRequired = errors.New("eventtail.credentials_required")
	ErrSignIn              = errors.New("eventtail.sign_in_failed")
	ErrSessionExpired      = errors.New("eventtail.session_expired")
)
