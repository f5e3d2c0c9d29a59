package password

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/openacademia/catalog-api/pkg/errors"
)

const minLength = 8

// Validate enforces the account password policy: minimum eight characters
// with at least one uppercase letter, one lowercase letter, one digit and
// one non-alphanumeric character.
func Validate(raw string) error {
	var problems []string
	if len(raw) < minLength {
		problems = append(problems, "at least 8 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper {
		problems = append(problems, "an uppercase letter")
	}
	if !lower {
		problems = append(problems, "a lowercase letter")
	}
	if !digit {
		problems = append(problems, "a digit")
	}
	if !symbol {
		problems = append(problems, "a symbol")
	}
	if len(problems) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "password must contain "+strings.Join(problems, ", "))
	}
	return nil
}

// Hash derives a bcrypt hash for storage.
func Hash(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares a stored hash against a candidate password.
func Verify(hash, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}
