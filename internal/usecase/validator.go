package usecase

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"smartchat/internal/domain/entity"
)

// Patterns that get a message rejected outright rather than sanitized.
// HTML tags, script/event-handler markers, and shell/eval keywords.
var blocklist = []*regexp.Regexp{
	regexp.MustCompile(`<\s*/?\s*[a-zA-Z][^>]*>`),
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	regexp.MustCompile(`(?i)\b(eval|exec|system)\s*\(`),
	regexp.MustCompile("`" + `|\$\(`),
}

// ValidateMessage checks a raw user message and returns the HTML-neutralized
// text on success. Pure function, no side effects.
func ValidateMessage(raw string, maxLength int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &entity.ValidationError{Reason: "Please enter a message."}
	}
	if utf8.RuneCountInString(trimmed) > maxLength {
		return "", &entity.ValidationError{
			Reason: fmt.Sprintf("Message is too long (maximum %d characters).", maxLength),
		}
	}
	for _, re := range blocklist {
		if re.MatchString(trimmed) {
			return "", &entity.ValidationError{Reason: "Message contains disallowed content."}
		}
	}
	return html.EscapeString(trimmed), nil
}
