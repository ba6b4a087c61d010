package utils

import (
	"strings"

	"github.com/mojocn/base64Captcha"
)

var captchaStore = NewCaptchaStore(0)

// GenerateCaptcha creates a digit captcha and returns its id and data URI.
func GenerateCaptcha() (string, string, error) {
	driver := base64Captcha.NewDriverDigit(40, 120, 5, 0.7, 80)
	id, b64, _, err := base64Captcha.NewCaptcha(driver, captchaStore).Generate()
	return id, b64, err
}

// VerifyCaptcha checks the answer and consumes the captcha.
func VerifyCaptcha(id, answer string) bool {
	id, answer = strings.TrimSpace(id), strings.TrimSpace(answer)
	if id == "" || answer == "" {
		return false
	}
	return captchaStore.Verify(id, answer, true)
}
