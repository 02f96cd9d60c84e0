package password

import (
	"fmt"
	"strings"
	"unicode"
)

// Policy describes the password complexity requirements.
type Policy struct {
	MinLength           int
	MaxLength           int
	RequireUppercase    bool
	RequireLowercase    bool
	RequireNumbers      bool
	RequireSpecialChars bool
}

// DefaultPolicy is applied to every account type.
var DefaultPolicy = Policy{
	MinLength:        8,
	MaxLength:        72,
	RequireUppercase: true,
	RequireLowercase: true,
	RequireNumbers:   true,
}

// ValidationError represents a password validation error.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Validate checks password against policy. MaxLength guards bcrypt, which
// only considers the first 72 bytes.
func Validate(password string, policy Policy) error {
	if len(password) < policy.MinLength {
		return &ValidationError{
			Rule:    "Length",
			Message: fmt.Sprintf("Password must be at least %d characters long", policy.MinLength),
		}
	}
	if policy.MaxLength > 0 && len(password) > policy.MaxLength {
		return &ValidationError{
			Rule:    "Length",
			Message: fmt.Sprintf("Password must be at most %d bytes long", policy.MaxLength),
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if policy.RequireUppercase && !hasUpper {
		return &ValidationError{Rule: "Uppercase", Message: "Password must contain at least one uppercase letter"}
	}
	if policy.RequireLowercase && !hasLower {
		return &ValidationError{Rule: "Lowercase", Message: "Password must contain at least one lowercase letter"}
	}
	if policy.RequireNumbers && !hasNumber {
		return &ValidationError{Rule: "Numbers", Message: "Password must contain at least one number"}
	}
	if policy.RequireSpecialChars && !hasSpecial {
		return &ValidationError{Rule: "Special", Message: "Password must contain at least one special character"}
	}
	return nil
}

// Describe returns a human-readable description of the policy.
func Describe(policy Policy) string {
	desc := fmt.Sprintf("Password must be at least %d characters", policy.MinLength)

	var requirements []string
	if policy.RequireUppercase {
		requirements = append(requirements, "an uppercase letter")
	}
	if policy.RequireLowercase {
		requirements = append(requirements, "a lowercase letter")
	}
	if policy.RequireNumbers {
		requirements = append(requirements, "a number")
	}
	if policy.RequireSpecialChars {
		requirements = append(requirements, "a special character")
	}

	switch len(requirements) {
	case 0:
	case 1:
		desc += " and contain at least " + requirements[0]
	default:
		last := len(requirements) - 1
		desc += " and contain at least " + strings.Join(requirements[:last], ", ") + " and " + requirements[last]
	}
	return desc + "."
}
