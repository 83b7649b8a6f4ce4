// Package validator checks form input before it is sent to the API.
//
// A Rule pairs a Check func with the ValidationError to report when the
// check fails. Apply runs rules in order and returns every failure as
// ValidationErrors, which implements error and matches ErrValidationFailed.
//
//	err := validator.Apply(
//		validator.Required("email", email),
//		validator.ValidEmail("email", email),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		fields := verrs.FieldMessages()
//	}
//
// Login, Signup and PasswordChange bundle the rule sets of the dashboard's
// auth forms.
package validator
