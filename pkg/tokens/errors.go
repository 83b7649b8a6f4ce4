package tokens

import "errors"

var (
	ErrEmptyAccessToken = errors.New("tokens.empty_access_token")
	ErrStorageFailure   = errors.New("tokens.storage_failure")
	ErrUnknownBackend   = errors.New("tokens.unknown_backend")
)
