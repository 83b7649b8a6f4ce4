package validator

// Login holds the login form fields.
type Login struct {
	Email    string
	Password string
}

// Signup holds the signup form fields.
type Signup struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// PasswordChange holds the change-password form fields.
type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// Field names reported in ValidationErrors. They match the JSON names the
// API uses in error details.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"

	nameMaxLen = 100
)

func emailRules(email string) []Rule {
	return []Rule{
		Required(FieldEmail, email).WithMessage("Email is required"),
		ValidEmail(FieldEmail, email).WithMessage("Invalid email address"),
	}
}

// NewPasswordRules checks the length bounds for a password being set.
func NewPasswordRules(field, password string) []Rule {
	return []Rule{
		MinLen(field, password, PasswordMinLen).WithMessage("Password must be at least 8 characters"),
		MaxLen(field, password, PasswordMaxLen).WithMessage("Password is too long"),
	}
}

func (l Login) Validate() error {
	rules := emailRules(l.Email)
	// Any non-empty password is sent; the server decides whether it is right.
	rules = append(rules, MinLen(FieldPassword, l.Password, 1).WithMessage("Password is required"))
	return Apply(rules...)
}

func (s Signup) Validate() error {
	rules := emailRules(s.Email)
	rules = append(rules, NewPasswordRules(FieldPassword, s.Password)...)
	rules = append(rules,
		MinLen(FieldFirstName, s.FirstName, 1).WithMessage("First name is required"),
		MaxLen(FieldFirstName, s.FirstName, nameMaxLen),
		MinLen(FieldLastName, s.LastName, 1).WithMessage("Last name is required"),
		MaxLen(FieldLastName, s.LastName, nameMaxLen),
		Equal(FieldConfirmPassword, s.ConfirmPassword, s.Password).WithMessage("Passwords don't match"),
	)
	return Apply(rules...)
}

func (p PasswordChange) Validate() error {
	rules := []Rule{
		MinLen(FieldCurrentPassword, p.CurrentPassword, 1).WithMessage("Current password is required"),
	}
	rules = append(rules, NewPasswordRules(FieldNewPassword, p.NewPassword)...)
	rules = append(rules,
		Equal(FieldConfirmPassword, p.ConfirmPassword, p.NewPassword).WithMessage("Passwords don't match"),
	)
	return Apply(rules...)
}
