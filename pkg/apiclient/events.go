package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

const StreamPath = "/events/stream"

type EventsAPI struct {
	c *Client
}

func (c *Client) Events() EventsAPI {
	return EventsAPI{c: c}
}

// Ticket requests a one-time ticket authorizing a single stream connection.
func (e EventsAPI) Ticket(ctx context.Context) (string, error) {
	var resp struct {
		Ticket string `json:"ticket"`
	}
	if err := e.c.Post(ctx, "/events/ticket", nil, &resp); err != nil {
		return "", err
	}
	return resp.Ticket, nil
}

// Stream opens the event stream authorized by ticket. The caller must close
// the response body.
func (e EventsAPI) Stream(ctx context.Context, ticket string) (*http.Response, error) {
	return e.c.OpenStream(ctx, StreamPath, url.Values{"ticket": {ticket}})
}

// Demo asks the backend to emit a sample notification on the caller's
// stream. Only available when the backend runs in demo mode.
func (e EventsAPI) Demo(ctx context.Context) error {
	return e.c.Post(ctx, "/events/demo", nil, nil)
}
