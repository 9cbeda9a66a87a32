package service

import (
	"regexp"
	"strings"
)

var (
	thinkBlockPattern   = regexp.MustCompile(`(?is)<think>.*?</think>`)
	danglingClosePrefix = regexp.MustCompile(`(?is)^.*</think>`)
	danglingOpenSuffix  = regexp.MustCompile(`(?is)<think>.*$`)
)

// SanitizeResponse removes reasoning blocks some models emit and trims the
// result. A closing tag with no opener drops everything before it, an opener
// with no closer drops everything after it.
func SanitizeResponse(text string) string {
	text = thinkBlockPattern.ReplaceAllString(text, "")
	text = danglingClosePrefix.ReplaceAllString(text, "")
	text = danglingOpenSuffix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
