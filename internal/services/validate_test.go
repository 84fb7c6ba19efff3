package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uscann/chemtrack/internal/types"
)

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		message string
	}{
		{"all missing", IdentityInput{}, "Missing required fields: name, email, password"},
		{"password missing", IdentityInput{Name: "Bob", Email: "bob@example.edu"}, "Missing required fields: password"},
		{"bad email", IdentityInput{Name: "Bob", Email: "not-an-email", Password: "pw"}, `invalid email address "not-an-email"`},
		{"credentials", Credentials{Email: "alice@example.edu"}, "Missing required fields: password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStruct(tt.in)
			require.Error(t, err)
			ce := types.AsCustomError(err)
			assert.Equal(t, types.ErrTypeValidation, ce.Type)
			assert.Equal(t, tt.message, ce.Message)
		})
	}

	assert.NoError(t, validateStruct(IdentityInput{Name: "Bob", Email: "bob@example.edu", Password: "pw"}))
}

func TestCredentialsBlankEmail(t *testing.T) {
	err := Credentials{Email: "   ", Password: "pw"}.validate()
	require.Error(t, err)
	assert.Equal(t, "Missing required fields: email", types.AsCustomError(err).Message)
}
