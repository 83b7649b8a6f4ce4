package authstate

import "github.com/golid-ai/dashkit/pkg/validator"

// ValidateLogin checks credentials before anything is sent.
func ValidateLogin(c LoginCredentials) error {
	return validator.Login{Email: c.Email, Password: c.Password}.Validate()
}

// ValidateSignup checks signup input before anything is sent.
func ValidateSignup(d SignupData) error {
	return validator.Signup{
		Email:           d.Email,
		Password:        d.Password,
		ConfirmPassword: d.ConfirmPassword,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
	}.Validate()
}
