package client

import "regexp"

var identifierStrip = regexp.MustCompile(`[^a-z0-9-]`)

// IsValidIdentifier reports whether id survives stripping every character
// outside [a-z0-9-] unchanged.
func IsValidIdentifier(id string) bool {
	return identifierStrip.ReplaceAllString(id, "") == id
}

// ValidateIdentifier checks an event or event group identifier before it is
// placed in a request URL.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &APIError{
			Kind:    KindInvalidArgument,
			Message: "identifier must not be empty",
			Err:     ErrEmptyIdentifier,
		}
	}
	if !IsValidIdentifier(id) {
		return &APIError{
			Kind:    KindInvalidArgument,
			Message: "invalid identifier " + id,
			Err:     ErrMalformedIdentifier,
		}
	}
	return nil
}
