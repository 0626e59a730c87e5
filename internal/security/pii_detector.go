package security

import (
	"strings"
)

// DefaultSensitiveKeywords flag messages that probably contain personal data
var DefaultSensitiveKeywords = []string{
	"password", "passport", "credit card", "card number", "cvv",
	"bank account", "pin", "social security", "ssn", "api key",
}

// PIIDetector checks messages for sensitive keywords so audits can flag them
type PIIDetector struct {
	keywords []string
}

func NewPIIDetector(keywords []string) *PIIDetector {
	if len(keywords) == 0 {
		keywords = DefaultSensitiveKeywords
	}
	lower := make([]string, len(keywords))
	for i, k := range keywords {
		lower[i] = strings.ToLower(k)
	}
	return &PIIDetector{keywords: lower}
}

// Detect returns true and the matched keyword if one is found as a whole word in text
func (d *PIIDetector) Detect(text string) (bool, string) {
	lower := " " + strings.Join(strings.FieldsFunc(strings.ToLower(text), isSeparator), " ") + " "
	for _, kw := range d.keywords {
		if strings.Contains(lower, " "+kw+" ") {
			return true, kw
		}
	}
	return false, ""
}

func isSeparator(r rune) bool {
	return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r > 127)
}
