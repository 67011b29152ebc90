// Package validation checks request payloads before they reach the
// authentication core. Every check for a request runs, so a client sees all
// violations at once.
package validation

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

const (
	MinPasswordLength = 8

	// PasswordSpecials is the set of characters that satisfy the special
	// character rule.
	PasswordSpecials = "!@#$%^&*()_+"
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every violation found in one request. It matches
// common.ErrMalformedInput with errors.Is.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return common.ErrMalformedInput.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return common.ErrMalformedInput
}

type collector []Violation

func (c *collector) add(field, msg string) {
	*c = append(*c, Violation{Field: field, Message: msg})
}

func (c collector) err() error {
	if len(c) == 0 {
		return nil
	}
	return &Error{Violations: c}
}

func ValidateRegister(email, password, biometricKey string) error {
	var c collector
	checkEmail(&c, email)
	checkStrongPassword(&c, password)
	if biometricKey != "" && strings.TrimSpace(biometricKey) == "" {
		c.add("biometricKey", "biometricKey must not be blank")
	}
	return c.err()
}

func ValidateLogin(email, password string) error {
	var c collector
	checkEmail(&c, email)
	if password == "" {
		c.add("password", "password should not be empty")
	}
	return c.err()
}

func ValidateBiometricLogin(biometricKey string) error {
	var c collector
	if biometricKey == "" {
		c.add("biometricKey", "biometricKey should not be empty")
	}
	return c.err()
}

func checkEmail(c *collector, email string) {
	if email == "" {
		c.add("email", "email should not be empty")
		return
	}
	addr, err := mail.ParseAddress(email)
	// reject display-name forms like "Bob <bob@x.com>"
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		c.add("email", "email must be an email")
	}
}

func checkStrongPassword(c *collector, password string) {
	if password == "" {
		c.add("password", "password should not be empty")
		return
	}
	if len([]rune(password)) < MinPasswordLength {
		c.add("password", "password must be longer than or equal to 8 characters")
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		c.add("password", "password must contain uppercase, lowercase, number and special character")
	}
}
