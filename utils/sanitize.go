package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// PlainText strips every tag and trims the result. The result is text, not HTML; used for titles,
// names and replies.
func PlainText(input string) string {
	return strings.TrimSpace(html.UnescapeString(stripper.Sanitize(input)))
}
