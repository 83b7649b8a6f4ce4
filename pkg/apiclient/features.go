package apiclient

import "context"

type FeaturesAPI struct {
	c *Client
}

func (c *Client) Features() FeaturesAPI {
	return FeaturesAPI{c: c}
}

// List returns the public feature flag map.
func (f FeaturesAPI) List(ctx context.Context) (map[string]bool, error) {
	flags := map[string]bool{}
	if err := f.c.Get(ctx, "/features", &flags, SkipAuth()); err != nil {
		return nil, err
	}
	return flags, nil
}
