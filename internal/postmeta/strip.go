package postmeta

import "regexp"

var (
	fencedCodePattern  = regexp.MustCompile("(?s)```.*?```")
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)
	imagePattern       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkPattern        = regexp.MustCompile(`\[[^\]]*\]\([^)]+\)`)
	markdownPunctation = regexp.MustCompile("[#>*`_\\-\\[\\]()]")
)

// stripCodeAndTags removes fenced code blocks and inline HTML tags.
func stripCodeAndTags(md string) string {
	md = fencedCodePattern.ReplaceAllString(md, "")
	return htmlTagPattern.ReplaceAllString(md, "")
}

// stripPunctuation replaces markdown syntax characters with spaces.
func stripPunctuation(md string) string {
	return markdownPunctation.ReplaceAllString(md, " ")
}
