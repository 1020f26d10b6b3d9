// Package common holds small helpers shared by the CLI actions and pipeline.
package common

import (
	"net/url"
	"regexp"
	"strings"
)

// markdownLinkPattern extracts the URL from "[text](url)" copy-paste artifacts.
var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// urlPattern is the basic shape check applied before net/url validation.
var urlPattern = regexp.MustCompile(`^https?://[a-zA-Z0-9]([-a-zA-Z0-9.]*[a-zA-Z0-9])?(:\d+)?(/[^\s]*)?$`)

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste
// issues: surrounding whitespace, trailing punctuation, markdown link syntax.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL reports whether cleaned is an absolute http(s) URL.
func ValidateURL(cleaned string) bool {
	if cleaned == "" || strings.Contains(cleaned, " ") {
		return false
	}
	if !urlPattern.MatchString(cleaned) {
		return false
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	// Braces and quotes in the host indicate a mangled paste.
	if strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return false
	}

	return true
}

// SanitizeAndValidateURLs sanitizes all URLs and splits them into valid and
// invalid sets. Blank entries (stray commas, trailing newlines) are dropped
// silently; invalid entries are reported in their original form.
func SanitizeAndValidateURLs(urls []string) (sanitized []string, invalid []string) {
	sanitized = make([]string, 0, len(urls))

	for _, rawURL := range urls {
		cleaned := SanitizeURL(rawURL)
		if cleaned == "" {
			continue
		}
		if !ValidateURL(cleaned) {
			invalid = append(invalid, rawURL)
			continue
		}
		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalid
}

// DedupeURLs drops repeated URLs, keeping the first occurrence in order.
func DedupeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
