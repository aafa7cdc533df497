package postmeta

import "strings"

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// WordCount counts whitespace-separated words left after code blocks, HTML
// tags and markdown punctuation are removed.
func WordCount(md string) int {
	return len(strings.Fields(stripPunctuation(stripCodeAndTags(md))))
}

// ReadingTime estimates whole minutes to read md, never less than one.
func ReadingTime(md string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := WordCount(md)
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return max(1, minutes)
}
