package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidateEmail validates a payer email address format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	return nil
}

// NormalizeEmail converts an email to its canonical lower-cased form.
// Every comparison and every stored row uses this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateAndNormalizeEmail validates an email and returns its normalized form
func ValidateAndNormalizeEmail(email string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	return NormalizeEmail(email), nil
}

// ValidateReference validates a provider transaction reference
func ValidateReference(reference string) error {
	if reference == "" {
		return fmt.Errorf("reference cannot be empty")
	}

	if len(reference) > 128 {
		return fmt.Errorf("invalid reference length: got %d", len(reference))
	}

	for _, r := range reference {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("invalid character in reference: %q", r)
		}
	}

	return nil
}
