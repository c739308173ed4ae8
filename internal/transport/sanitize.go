package transport

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const maxPromptLength = 2000

var promptPolicy = bluemonday.StrictPolicy()

// sanitizePrompt strips markup from user text and bounds its length.
func sanitizePrompt(prompt string) string {
	clean := html.UnescapeString(promptPolicy.Sanitize(prompt))
	clean = strings.TrimSpace(clean)
	if utf8.RuneCountInString(clean) > maxPromptLength {
		clean = string([]rune(clean)[:maxPromptLength])
	}
	return clean
}
