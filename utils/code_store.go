package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
	"time"
)

// GenerateVerificationCode returns an n-digit numeric code.
func GenerateVerificationCode(n int) string {
	if n <= 0 {
		n = 6
	}
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			v = big.NewInt(time.Now().UnixNano() % 10)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}

func codeKey(email string) string {
	return "otp:email:" + strings.ToLower(strings.TrimSpace(email))
}

// SaveCode stores the login code for email, replacing any earlier one.
func SaveCode(email, code string, ttl time.Duration) {
	kvSet(codeKey(email), code, ttl)
}

// VerifyAndConsumeCode checks the code for email. The stored code is removed on the first attempt,
// right or wrong.
func VerifyAndConsumeCode(email, code string) bool {
	stored, ok := kvTake(codeKey(email))
	if !ok || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1
}

func cooldownKey(email string) string {
	return "otp:cooldown:" + strings.ToLower(strings.TrimSpace(email))
}

// EmailCooldownTrySet starts a send cooldown for email. It returns false while one is running.
func EmailCooldownTrySet(email string, cooldown time.Duration) bool {
	return kvSetNX(cooldownKey(email), "1", cooldown)
}

// EmailCooldownRelease ends a running cooldown, so a send that failed can be retried at once.
func EmailCooldownRelease(email string) {
	kvTake(cooldownKey(email))
}
