package authstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/authstate"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *apiclient.User
		want string
	}{
		{"anonymous", nil, "Account"},
		{"no names", &apiclient.User{ID: "1"}, "Account"},
		{"first only", &apiclient.User{FirstName: "Ada"}, "Ada"},
		{"last only", &apiclient.User{LastName: "Lovelace"}, "Lovelace"},
		{"both", &apiclient.User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authstate.DisplayName(tt.user))
			assert.Equal(t, tt.want, authstate.State{User: tt.user}.DisplayName())
		})
	}
}

func TestDerivedFlags(t *testing.T) {
	assert.False(t, authstate.State{}.IsAuthenticated())
	assert.False(t, authstate.State{}.IsAdmin())

	member := authstate.State{User: &apiclient.User{Type: "member"}}
	assert.True(t, member.IsAuthenticated())
	assert.False(t, member.IsAdmin())

	admin := authstate.State{User: &apiclient.User{Type: "admin"}}
	assert.True(t, admin.IsAdmin())
}
