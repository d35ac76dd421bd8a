package messaging

import "strings"

// FormatPhoneNumber normalizes a customer phone number for WhatsApp
// delivery. Non-digits are stripped, bare 10-digit numbers get a US
// country code, and the result is prefixed with "+". Returns "" when
// the input has no digits at all.
func FormatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}
	if len(cleaned) == 10 {
		cleaned = "1" + cleaned
	}
	return "+" + cleaned
}
