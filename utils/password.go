package utils

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Password length bounds for local accounts.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 64
)

// ValidPassword checks the length bounds. bcrypt ignores bytes past 72, so the upper bound matters.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= MinPasswordLen && n <= MaxPasswordLen && len(password) <= 72
}

// HashPassword returns the bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password. An empty hash never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
