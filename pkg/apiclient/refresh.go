package apiclient

import (
	"context"
	"time"

	"github.com/golid-ai/dashkit/pkg/broadcast"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/tokens"
)

const refreshPath = "/auth/refresh"

// RefreshTokens exchanges the stored refresh token for a new pair and saves
// it. Concurrent callers share one request. A rejected refresh returns
// *Error, a network failure *TransportError, and a missing refresh token
// ErrNoRefreshToken. Stored tokens are left as they were on failure.
func (c *Client) RefreshTokens(ctx context.Context) error {
	ch := c.refreshes.DoChan("refresh", func() (any, error) {
		// Detached so one caller giving up does not fail the others.
		return nil, c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context) error {
	current := c.loadTokens(ctx)
	if current.Refresh == "" {
		return ErrNoRefreshToken
	}

	var resp AuthResponse
	err := c.Post(ctx, refreshPath, refreshRequest{RefreshToken: current.Refresh}, &resp, SkipAuth())
	if err != nil {
		c.logger.InfoContext(ctx, "token refresh failed", logger.Error(err))
		return err
	}

	next := tokens.Pair{Access: resp.AccessToken, Refresh: resp.RefreshToken}
	if next.Refresh == "" {
		next.Refresh = current.Refresh
	}
	if err := c.tokens.Save(ctx, next); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "access token refreshed")
	return nil
}

// expireSession clears stored tokens and notifies subscribers.
func (c *Client) expireSession(ctx context.Context, path string) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to clear tokens", logger.Error(err))
	}
	c.logger.InfoContext(ctx, "session expired", logger.Endpoint("", path))
	_ = c.expired.Broadcast(broadcast.Message[SessionExpired]{
		Data: SessionExpired{Path: path, At: time.Now()},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
