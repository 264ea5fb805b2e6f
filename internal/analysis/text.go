package analysis

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultMaxTips        = 7
	defaultWorkingWordCap = 500
	truncateRunes         = 150
	ellipsis              = "..."
)

// capWords keeps the first n whitespace-separated words of text. Text within
// the cap is returned as is.
func capWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

// truncate returns text unchanged up to 150 characters, otherwise its first
// 150 characters followed by "...".
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= truncateRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:truncateRunes]) + ellipsis
}
