package service

import (
	"unicode"
)

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// validatePassword requires minLength runes with at least one letter and
// one digit.
func validatePassword(minLength int, password string) error {
	if minLength <= 0 {
		minLength = 8
	}
	if len([]rune(password)) < minLength {
		return passwordPolicyError{key: "error.password_too_short", args: []interface{}{minLength}}
	}
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return passwordPolicyError{key: "error.password_weak"}
	}
	return nil
}
