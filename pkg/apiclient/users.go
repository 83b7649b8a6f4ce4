package apiclient

import "context"

type UsersAPI struct {
	c *Client
}

func (c *Client) Users() UsersAPI {
	return UsersAPI{c: c}
}

// ProfileUpdate holds the editable profile fields. Nil fields are omitted.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Me fetches the authenticated user.
func (u UsersAPI) Me(ctx context.Context) (*User, error) {
	var user User
	if err := u.c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u UsersAPI) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := u.c.Put(ctx, "/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
