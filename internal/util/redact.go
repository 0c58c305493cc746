package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)\b(api|apikey|secret|token|key|password|bearer)[=:]\s*[A-Za-z0-9-_.]{8,}`)
)

// RedactPII masks email addresses and obvious credential assignments. Used on
// text leaving the program via the clipboard, never on what is displayed.
func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllString(s, "$1=[redacted]")
	return s
}
