package httpserver

import "errors"

var (
	ErrStart          = errors.New("httpserver.start")
	ErrShutdown       = errors.New("httpserver.shutdown")
	ErrAlreadyRunning = errors.New("httpserver.already_running")
)
