package postmeta

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name string
		md   string
		wpm  int
		want int
	}{
		{name: "empty document is one minute", md: "", wpm: 200, want: 1},
		{name: "short post", md: "Hello world", wpm: 200, want: 1},
		{name: "exactly one minute", md: strings.Repeat("word ", 200), wpm: 200, want: 1},
		{name: "rounds up", md: strings.Repeat("word ", 201), wpm: 200, want: 2},
		{name: "custom speed", md: strings.Repeat("word ", 100), wpm: 50, want: 2},
		{name: "non positive speed falls back", md: strings.Repeat("word ", 401), wpm: 0, want: 3},
		{
			name: "code fences are not read",
			md:   "intro\n```go\n" + strings.Repeat("x ", 500) + "\n```\noutro",
			wpm:  200,
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadingTime(tt.md, tt.wpm))
		})
	}
}

func TestWordCount_IgnoresMarkupAndTags(t *testing.T) {
	md := "# Title\n\n<div class=\"x\">Some **bold** text</div>\n\n- item"
	assert.Equal(t, 5, WordCount(md))
}

func TestExcerpt(t *testing.T) {
	t.Run("short text is returned whole", func(t *testing.T) {
		assert.Equal(t, "Hello world", Excerpt("# Hello world", 160))
	})

	t.Run("links and images are dropped with their text", func(t *testing.T) {
		md := "See ![diagram](d.png) the [docs](https://example.com) for details."
		assert.Equal(t, "See the for details.", Excerpt(md, 160))
	})

	t.Run("html and code are removed", func(t *testing.T) {
		md := "Before <span>inline</span>\n```\ncode here\n```\nafter"
		assert.Equal(t, "Before inline after", Excerpt(md, 160))
	})

	t.Run("truncates at a word boundary", func(t *testing.T) {
		got := Excerpt("alpha beta gamma delta", 13)
		assert.Equal(t, "alpha beta"+Ellipsis, got)
	})

	t.Run("cut right before a space keeps the last word", func(t *testing.T) {
		got := Excerpt("alpha beta gamma", 10)
		assert.Equal(t, "alpha beta"+Ellipsis, got)
	})

	t.Run("single long word is hard cut", func(t *testing.T) {
		got := Excerpt(strings.Repeat("a", 20), 5)
		assert.Equal(t, "aaaaa"+Ellipsis, got)
	})

	t.Run("budget counts runes", func(t *testing.T) {
		got := Excerpt("ærø ærø ærø", 7)
		assert.Equal(t, "ærø ærø"+Ellipsis, got)
	})

	t.Run("excerpt never exceeds budget", func(t *testing.T) {
		body := strings.Repeat("lorem ipsum dolor sit amet ", 40)
		got := Excerpt(body, DefaultExcerptLength)
		require.True(t, strings.HasSuffix(got, Ellipsis))
		assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(got, Ellipsis))), DefaultExcerptLength)
	})

	t.Run("cut lands on a word boundary", func(t *testing.T) {
		fillers := []string{"alpha", "be", "gamma", "deltas", "epsilonic", "zeta", "etaa"}
		words := make([]string, 300)
		for i := range words {
			words[i] = fillers[i%len(fillers)]
		}
		body := strings.Join(words, " ")

		for _, budget := range []int{DefaultExcerptLength, 37, 100, 161} {
			got := Excerpt(body, budget)
			require.True(t, strings.HasSuffix(got, Ellipsis), "budget %d", budget)
			prefix := strings.TrimSuffix(got, Ellipsis)

			require.NotEmpty(t, prefix)
			assert.LessOrEqual(t, len([]rune(prefix)), budget)
			require.True(t, strings.HasPrefix(body, prefix), "budget %d: %q", budget, prefix)
			assert.Equal(t, byte(' '), body[len(prefix)], "budget %d: %q ends mid-word", budget, prefix)

			// The next whole word would not have fit.
			next := strings.Fields(body[len(prefix):])[0]
			assert.Greater(t, len([]rune(prefix))+1+len([]rune(next)), budget, "budget %d", budget)
		}
	})
}

func TestFormatDate(t *testing.T) {
	t.Run("absent values", func(t *testing.T) {
		for _, raw := range []any{nil, "", "   ", 0, time.Time{}} {
			info := FormatDate(raw)
			assert.False(t, info.Valid, "%#v", raw)
			assert.Equal(t, UnknownDateLabel, info.Label)
			assert.Empty(t, info.ISO)
		}
	})

	t.Run("plain date", func(t *testing.T) {
		info := FormatDate("2024-01-15")
		require.True(t, info.Valid)
		assert.Equal(t, "January 15, 2024", info.Label)
		assert.Equal(t, "2024-01-15T00:00:00.000Z", info.ISO)
	})

	t.Run("offset timestamp is normalized to UTC", func(t *testing.T) {
		info := FormatDate("2024-03-01T01:30:00+02:00")
		require.True(t, info.Valid)
		assert.Equal(t, "2024-02-29T23:30:00.000Z", info.ISO)
		assert.Equal(t, "February 29, 2024", info.Label)
	})

	t.Run("long form", func(t *testing.T) {
		info := FormatDate("March 5, 2023")
		require.True(t, info.Valid)
		assert.Equal(t, "2023-03-05T00:00:00.000Z", info.ISO)
	})

	t.Run("time value", func(t *testing.T) {
		info := FormatDate(time.Date(2022, 7, 4, 12, 0, 0, 0, time.UTC))
		require.True(t, info.Valid)
		assert.Equal(t, "July 4, 2022", info.Label)
	})

	t.Run("epoch milliseconds", func(t *testing.T) {
		info := FormatDate(1700000000000)
		require.True(t, info.Valid)
		assert.Equal(t, "2023-11-14T22:13:20.000Z", info.ISO)
	})

	t.Run("garbage is echoed", func(t *testing.T) {
		info := FormatDate("not a date")
		assert.False(t, info.Valid)
		assert.Equal(t, "not a date", info.Label)
		assert.True(t, info.Time.IsZero())
	})
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024/02/10")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate(map[string]any{"y": 1})
	assert.False(t, ok)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Explicit", Title("  Explicit ", "<h1>Heading</h1>", "a.md"))
	assert.Equal(t, "Heading Text", Title("", `<h1 id="h"><a href="#h">Heading <em>Text</em></a></h1>`, "a.md"))
	assert.Equal(t, "My First Post", Title("", "<p>no heading</p>", "posts/my-first_post.md"))
}

func TestFirstHeading(t *testing.T) {
	assert.Empty(t, FirstHeading(""))
	assert.Empty(t, FirstHeading("<h2>Second</h2>"))
	assert.Equal(t, "One", FirstHeading("<h2>Two</h2><h1>One</h1><h1>Other</h1>"))
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "Hello World", TitleFromPath("hello-world.md"))
	assert.Equal(t, "Nested Note", TitleFromPath("2024/nested_note.md"))
	assert.Equal(t, "Untitled", TitleFromPath(".md"))
}

func TestFingerprint(t *testing.T) {
	doc := []byte("---\ntitle: A\n---\nbody\n")
	fp := Fingerprint(doc)
	assert.NotEmpty(t, fp)
	assert.Equal(t, fp, Fingerprint(doc))
	assert.NotEqual(t, fp, Fingerprint([]byte("---\ntitle: B\n---\nbody\n")))
	assert.NotEqual(t, fp, Fingerprint([]byte("---\ntitle: A\n---\nbody changed\n")))
	assert.NotEmpty(t, Fingerprint([]byte("no frontmatter")))
}
