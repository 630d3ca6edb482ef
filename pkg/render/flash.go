package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	flashPolicyOnce sync.Once
	flashPolicy     *bluemonday.Policy
)

// SanitizeFlashes strips any markup from flash messages before they reach a
// template. Flash text can echo user input (target names, filenames), so it
// is never trusted as HTML. Empty results are dropped.
func SanitizeFlashes(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	policy := flashSanitizer()

	out := make([]string, 0, len(messages))
	for _, message := range messages {
		cleaned := strings.TrimSpace(policy.Sanitize(message))
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func flashSanitizer() *bluemonday.Policy {
	flashPolicyOnce.Do(func() {
		flashPolicy = bluemonday.StrictPolicy()
	})
	return flashPolicy
}
