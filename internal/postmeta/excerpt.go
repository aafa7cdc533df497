package postmeta

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// DefaultExcerptLength is the excerpt budget in runes, ellipsis excluded.
	DefaultExcerptLength = 160
	// Ellipsis is appended to truncated excerpts.
	Ellipsis = "…"
)

var trailingPartialWord = regexp.MustCompile(`\s+\S*$`)

// Excerpt returns a plain-text summary of md of at most maxRunes runes plus
// Ellipsis. Images and links are dropped together with their text.
// Truncation happens on a word boundary unless the first word alone exceeds
// the budget.
func Excerpt(md string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultExcerptLength
	}
	text := stripCodeAndTags(md)
	text = imagePattern.ReplaceAllString(text, "")
	text = linkPattern.ReplaceAllString(text, "")
	text = strings.Join(strings.Fields(stripPunctuation(text)), " ")

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := string(runes[:maxRunes])
	if !unicode.IsSpace(runes[maxRunes]) {
		cut = trailingPartialWord.ReplaceAllString(cut, "")
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace) + Ellipsis
}
