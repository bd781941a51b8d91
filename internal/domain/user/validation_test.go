package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name    string
		req     LoginRequest
		message string
	}{
		{"missing username", LoginRequest{Password: "secret"}, "Username is a required field"},
		{"missing password", LoginRequest{Username: "crio.do"}, "Password is a required field"},
		{"both missing reports username", LoginRequest{}, "Username is a required field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.req)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.message, ve.Message)
		})
	}

	assert.NoError(t, ValidateLogin(LoginRequest{Username: "u", Password: "p"}))
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		message string
	}{
		{"blank username", RegisterRequest{Username: "   ", Password: "secret1", ConfirmPassword: "secret1"}, "Username is a required field"},
		{"short username after trim", RegisterRequest{Username: "  abc  ", Password: "secret1", ConfirmPassword: "secret1"}, "Username must be at least 6 characters"},
		{"missing password", RegisterRequest{Username: "crio.do"}, "Password is a required field"},
		{"short password", RegisterRequest{Username: "crio.do", Password: "abc", ConfirmPassword: "abc"}, "Password must be at least 6 characters"},
		{"mismatch", RegisterRequest{Username: "crio.do", Password: "secret1", ConfirmPassword: "secret2"}, "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.req)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.message, ve.Error())
		})
	}

	assert.NoError(t, ValidateRegistration(RegisterRequest{Username: " crio.do ", Password: "secret1", ConfirmPassword: "secret1"}))
}
