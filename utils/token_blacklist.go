package utils

import "time"

// BlacklistToken revokes a token until its natural expiry.
func BlacklistToken(token string, expiresAt time.Time) {
	kvSet("jwt:blacklist:"+token, "1", time.Until(expiresAt))
}

// IsTokenBlacklisted reports whether the token was revoked by a logout.
func IsTokenBlacklisted(token string) bool {
	_, ok := kvGet("jwt:blacklist:" + token)
	return ok
}
