package llm

import (
	"regexp"
	"strings"
)

// thinkTagPattern matches <think>...</think> spans (including the
// reasoning-model variant <thinking>...</thinking>), across newlines, so
// that reasoning traces never leak into content the rest of the pipeline
// treats as an answer.
var thinkTagPattern = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)

// StripThinkTags removes any <think>/<thinking> spans from s and trims the
// surrounding whitespace left behind.
func StripThinkTags(s string) string {
	return strings.TrimSpace(thinkTagPattern.ReplaceAllString(s, ""))
}
