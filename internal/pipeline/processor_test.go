package pipeline

import (
	"context"
	"strings"
	"testing"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/postmeta"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, p *Processor, relPath, raw string) docmodel.Post {
	t.Helper()
	post, err := p.Compile(context.Background(), docmodel.Document{RelPath: relPath, Raw: []byte(raw)})
	require.NoError(t, err)
	return post
}

func TestCompile_FullFrontmatter(t *testing.T) {
	p := NewProcessor(nil, WithDefaultAuthor("Fallback"))
	raw := "---\ntitle: Hello World\nauthor: Ada\ndate: 2024-01-15\n---\n# Heading\n\nSome text here.\n"

	post := compile(t, p, "2024/hello.md", raw)

	assert.Equal(t, "2024/hello", post.Slug)
	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, "Ada", post.Author)
	assert.Equal(t, "2024-01-15", post.Date)
	assert.Equal(t, "2024-01-15T00:00:00.000Z", post.DateISO)
	assert.Equal(t, "January 15, 2024", post.DateLabel)
	assert.True(t, post.HasDate())
	assert.Equal(t, 1, post.Minutes)
	assert.Equal(t, "Heading Some text here.", post.Excerpt)
	assert.Equal(t, "2024/hello/index.html", post.OutputPath)
	assert.Equal(t, "../../", post.Prefix)
	assert.Equal(t, "2024/hello.md", post.SourcePath)
	assert.Equal(t, postmeta.Fingerprint([]byte(raw)), post.Fingerprint)

	assert.True(t, strings.HasPrefix(post.HTML, `<p class="post-meta">By Ada · 1 min read · <time datetime="2024-01-15T00:00:00.000Z">January 15, 2024</time></p>`))
	assert.Contains(t, post.HTML, `<h1 id="heading"><a href="#heading">Heading</a></h1>`)
}

func TestCompile_Fallbacks(t *testing.T) {
	p := NewProcessor(nil, WithDefaultAuthor("  Site Owner "))

	post := compile(t, p, "notes/my_first-note.md", "Just a body without headings.\n")

	assert.Equal(t, "notes/my_first-note", post.Slug)
	assert.Equal(t, "My First Note", post.Title)
	assert.Equal(t, "Site Owner", post.Author)
	assert.Equal(t, postmeta.UnknownDateLabel, post.Date)
	assert.Empty(t, post.DateISO)
	assert.False(t, post.HasDate())
	assert.Contains(t, post.HTML, `<time datetime="">Unknown date</time>`)
}

func TestCompile_TitleFromFirstHeading(t *testing.T) {
	post := compile(t, NewProcessor(nil), "x.md", "intro\n\n# The *Real* Title\n")
	assert.Equal(t, "The Real Title", post.Title)
}

func TestCompile_UnparseableDateEchoed(t *testing.T) {
	post := compile(t, NewProcessor(nil), "x.md", "---\ndate: someday\n---\nbody\n")
	assert.Equal(t, "someday", post.Date)
	assert.Equal(t, "someday", post.DateLabel)
	assert.False(t, post.HasDate())
}

func TestCompile_SlugOverride(t *testing.T) {
	post := compile(t, NewProcessor(nil), "drafts/Whatever.md", "---\nslug: custom/path\n---\nbody\n")
	assert.Equal(t, "custom/path", post.Slug)
	assert.Equal(t, "../../", post.Prefix)
	assert.Equal(t, "custom/path/index.html", post.OutputPath)
}

func TestCompile_UnsafeSlugOverride(t *testing.T) {
	p := NewProcessor(nil)
	_, err := p.Compile(context.Background(), docmodel.Document{
		RelPath: "evil.md",
		Raw:     []byte("---\nslug: ../../etc\n---\nbody\n"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, slug.ErrInvalidSlug)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestCompile_MalformedFrontmatter(t *testing.T) {
	_, err := NewProcessor(nil).Compile(context.Background(), docmodel.Document{
		RelPath: "broken.md",
		Raw:     []byte("---\ntitle: [unclosed\n---\nbody\n"),
	})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFrontMatter))
	assert.Contains(t, err.Error(), "broken.md")

	_, err = NewProcessor(nil).Compile(context.Background(), docmodel.Document{
		RelPath: "open.md",
		Raw:     []byte("---\ntitle: x\nbody\n"),
	})
	assert.ErrorIs(t, err, frontmatter.ErrMissingClosingDelimiter)
}

func TestCompile_Options(t *testing.T) {
	body := strings.Repeat("word ", 120)
	p := NewProcessor(nil, WithWordsPerMinute(100), WithExcerptLength(20))

	post := compile(t, p, "long.md", body)

	assert.Equal(t, 2, post.Minutes)
	assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(post.Excerpt, postmeta.Ellipsis))), 20)

	defaults := NewProcessor(nil, WithWordsPerMinute(0), WithExcerptLength(-1))
	assert.Equal(t, postmeta.DefaultWordsPerMinute, defaults.wordsPerMinute)
	assert.Equal(t, postmeta.DefaultExcerptLength, defaults.excerptLength)
}

func TestCompile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(nil).Compile(ctx, docmodel.Document{RelPath: "a.md", Raw: []byte("body")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
