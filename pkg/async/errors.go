package async

import "errors"

var (
	ErrTimeout   = errors.New("async.timeout")
	ErrNoFutures = errors.New("async.no_futures")
)
