package security

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy = bluemonday.StrictPolicy()
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// SanitizeAccountField cleans account-surface input (registration name,
// email): trims, drops null bytes, strips any HTML and caps the length.
// Sheet data never goes through here; it is stored as submitted.
func SanitizeAccountField(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	input = htmlPolicy.Sanitize(input)

	if len(input) > 200 {
		input = input[:200]
	}

	return input
}

// ValidEmail checks the rough shape of an email address
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
