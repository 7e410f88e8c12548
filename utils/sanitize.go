package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user supplied HTML body content to prevent XSS attacks.
func Sanitize(input string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(input))
}

// SanitizeText strips every tag, for single line fields such as titles.
func SanitizeText(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}
