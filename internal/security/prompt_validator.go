package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultMaxInputLength = 4000

// injectionPatterns catch attempts to override the assistant's instructions
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)override\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)new\s+system\s+prompt\s*:`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?system\s+prompt`),
	regexp.MustCompile(`(?i)instead\s+of\s+the\s+above`),
}

// InputValidator checks user messages before they reach the model.
type InputValidator struct {
	maxLength int
}

func NewInputValidator(maxLength int) *InputValidator {
	if maxLength <= 0 {
		maxLength = DefaultMaxInputLength
	}
	return &InputValidator{maxLength: maxLength}
}

// ValidationResult contains validation outcome
type ValidationResult struct {
	Valid   bool
	Message string
}

// Validate rejects empty, oversized and instruction-override messages.
func (v *InputValidator) Validate(input string) ValidationResult {
	if strings.TrimSpace(input) == "" {
		return ValidationResult{Valid: false, Message: "message cannot be empty"}
	}

	if n := utf8.RuneCountInString(input); n > v.maxLength {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("message too long: %d chars (max %d)", n, v.maxLength),
		}
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(input) {
			return ValidationResult{
				Valid:   false,
				Message: "message looks like an attempt to override the assistant's instructions",
			}
		}
	}

	return ValidationResult{Valid: true, Message: "ok"}
}
