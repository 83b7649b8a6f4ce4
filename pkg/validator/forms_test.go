package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golid-ai/dashkit/pkg/validator"
)

func TestLoginValidate(t *testing.T) {
	tests := []struct {
		name  string
		input validator.Login
		want  map[string]string
	}{
		{
			name:  "valid",
			input: validator.Login{Email: "a@b.co", Password: "x"},
		},
		{
			name:  "empty",
			input: validator.Login{},
			want: map[string]string{
				"email":    "Email is required",
				"password": "Password is required",
			},
		},
		{
			name:  "bad email",
			input: validator.Login{Email: "nope", Password: "x"},
			want:  map[string]string{"email": "Invalid email address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			verrs := validator.ExtractValidationErrors(err)
			require.NotNil(t, verrs)
			assert.Equal(t, tt.want, verrs.FieldMessages())
		})
	}
}

func TestSignupValidate(t *testing.T) {
	valid := validator.Signup{
		Email:           "ada@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		FirstName:       "Ada",
		LastName:        "Lovelace",
	}
	require.NoError(t, valid.Validate())

	t.Run("password mismatch", func(t *testing.T) {
		in := valid
		in.ConfirmPassword = "different"
		verrs := validator.ExtractValidationErrors(in.Validate())
		assert.Equal(t, map[string]string{"confirmPassword": "Passwords don't match"}, verrs.FieldMessages())
	})

	t.Run("password bounds", func(t *testing.T) {
		in := valid
		in.Password, in.ConfirmPassword = "short", "short"
		verrs := validator.ExtractValidationErrors(in.Validate())
		assert.Equal(t, []string{"Password must be at least 8 characters"}, verrs.Get("password"))

		in.Password = strings.Repeat("a", validator.PasswordMaxLen+1)
		in.ConfirmPassword = in.Password
		verrs = validator.ExtractValidationErrors(in.Validate())
		assert.Equal(t, []string{"Password is too long"}, verrs.Get("password"))
	})

	t.Run("names", func(t *testing.T) {
		in := valid
		in.FirstName = ""
		in.LastName = strings.Repeat("x", 101)
		verrs := validator.ExtractValidationErrors(in.Validate())
		assert.Equal(t, "First name is required", verrs.FieldMessages()["first_name"])
		assert.True(t, verrs.Has("last_name"))
	})
}

func TestPasswordChangeValidate(t *testing.T) {
	ok := validator.PasswordChange{CurrentPassword: "old", NewPassword: "newpassword", ConfirmPassword: "newpassword"}
	assert.NoError(t, ok.Validate())

	bad := validator.PasswordChange{NewPassword: "short", ConfirmPassword: "nope"}
	verrs := validator.ExtractValidationErrors(bad.Validate())
	assert.Equal(t, []string{"current_password", "new_password", "confirmPassword"}, verrs.Fields())
}
