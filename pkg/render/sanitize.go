package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// SanitizeMessage strips configured success-message markup down to simple
// headings and text formatting.
func SanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(messageSanitizer().Sanitize(trimmed))
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("h2", "h3", "h4", "p", "br", "strong", "em", "b", "i", "span")
		policy.AllowAttrs("class").OnElements("p", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowElements("a")
		policy.AllowURLSchemes("mailto", "https")
		policy.RequireNoFollowOnLinks(true)
		messagePolicy = policy
	})
	return messagePolicy
}
