package user

import "strings"

const minCredentialLength = 6

// ValidationError is a bad input caught before calling the backend
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateLogin checks that both credentials are present
func ValidateLogin(req LoginRequest) error {
	if req.Username == "" {
		return &ValidationError{Field: "username", Message: "Username is a required field"}
	}
	if req.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is a required field"}
	}
	return nil
}

// ValidateRegistration checks a sign-up form. The username is trimmed
// before its checks.
func ValidateRegistration(req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)

	switch {
	case username == "":
		return &ValidationError{Field: "username", Message: "Username is a required field"}
	case len(username) < minCredentialLength:
		return &ValidationError{Field: "username", Message: "Username must be at least 6 characters"}
	case req.Password == "":
		return &ValidationError{Field: "password", Message: "Password is a required field"}
	case len(req.Password) < minCredentialLength:
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	case req.Password != req.ConfirmPassword:
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	return nil
}
