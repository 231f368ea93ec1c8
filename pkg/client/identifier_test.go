package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"abc-123", true},
		{"summer-fest", true},
		{"42", true},
		{"abc_123", false},
		{"Summer-Fest", false},
		{"a b", false},
		{"../etc", false},
		{"é", false},
		{"", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidIdentifier(tt.id), "IsValidIdentifier(%q)", tt.id)
	}
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("abc-123"))

	err := ValidateIdentifier("")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, errors.Is(err, ErrEmptyIdentifier))
	assert.False(t, errors.Is(err, ErrMalformedIdentifier))

	err = ValidateIdentifier("abc_123")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, errors.Is(err, ErrMalformedIdentifier))
	assert.Contains(t, err.Error(), "abc_123")
}
