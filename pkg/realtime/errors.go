package realtime

import "errors"

var (
	ErrClosed       = errors.New("realtime.closed")
	ErrStreamClosed = errors.New("realtime.stream_closed")
)
