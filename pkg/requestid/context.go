package requestid

import (
	"context"
	"net/http"
)

type ctxKey struct{}

func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// FromContext returns the id stored by Middleware or WithContext, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromResponse returns the id the server echoed on resp. Missing or
// malformed values read as "".
func FromResponse(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	if id := resp.Header.Get(Header); isValidRequestID(id) {
		return id
	}
	return ""
}
