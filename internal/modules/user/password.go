package user

import (
	"errors"
	"strings"
	"unicode"
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// Password change errors, one per unmet requirement.
var (
	ErrPasswordTooShort = errors.New("a senha deve ter no mínimo 8 caracteres")
	ErrPasswordNoUpper  = errors.New("a senha deve conter ao menos uma letra maiúscula")
	ErrPasswordNoLower  = errors.New("a senha deve conter ao menos uma letra minúscula")
	ErrPasswordNoDigit  = errors.New("a senha deve conter ao menos um número")
	ErrPasswordNoSymbol = errors.New("a senha deve conter ao menos um caractere especial")
	ErrPasswordMismatch = errors.New("as senhas devem coincidir")
)

// ValidatePassword enforces the password complexity rules: minimum length 8,
// at least one uppercase letter, one lowercase letter, one digit, one symbol
// from the fixed set, and a matching confirmation.
func ValidatePassword(password, confirm string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, c):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSymbol:
		return ErrPasswordNoSymbol
	case password != confirm:
		return ErrPasswordMismatch
	}
	return nil
}
