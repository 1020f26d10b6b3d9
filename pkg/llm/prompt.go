package llm

import (
	"fmt"
	"strings"
)

// Content longer than this is truncated before prompting; summaries do not
// improve past a few thousand words and provider limits are real.
const maxPromptContent = 24000

// SummaryPrompt asks the model for a compact summary of a saved page.
func SummaryPrompt(title, content string) string {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}
	return fmt.Sprintf(`Summarize the following article in 3-5 sentences. Be factual and concise, no preamble.

Title: %s

%s`, title, content)
}

// TagsPrompt asks the model for topical tags over an existing summary.
func TagsPrompt(summary string) string {
	return fmt.Sprintf(`Derive 3 to 6 short topical tags for the article summarized below.
Reply with only the tags, lowercase, comma-separated, no other text.

%s`, summary)
}

// ParseTags leniently parses a model tag reply: split on commas and
// newlines, trim list markers and quotes, lowercase, dedupe, cap at 8.
func ParseTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		tag := strings.ToLower(strings.TrimSpace(f))
		tag = strings.Trim(tag, `"'.#-* `)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == 8 {
			break
		}
	}
	return tags
}
