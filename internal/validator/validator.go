package validator

import "unicode"

// IsValidLogin accepts 3-64 latin letters, digits, dots and underscores.
func IsValidLogin(login string) bool {
	if len(login) < 3 || len(login) > 64 {
		return false
	}

	for _, r := range login {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return false
		}
	}

	return true
}

// IsValidPassword requires at least 8 characters with a letter and a digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 128 {
		return false
	}

	var hasLetter, hasDigit bool

	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
