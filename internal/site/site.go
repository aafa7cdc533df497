// Package site generates the pages of a blog from compiled posts: one page per
// post, the posts index, the homepage, the about page and the RSS feed.
//
// Generators are pure. They return Output values and never touch the
// filesystem.
package site

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// Output paths of the aggregate pages, relative to the output root.
const (
	PostsIndexPath = "posts/index.html"
	HomepagePath   = "index.html"
	AboutPath      = "about/index.html"
	FeedPath       = "feed.xml"
)

// DefaultAbout is the about page body used when none is configured.
const DefaultAbout = `<h1>About This Blog</h1>
<p>Notes and articles, written in Markdown and published as a static site.</p>`

// Config carries site-wide values used by the generators.
type Config struct {
	Title       string
	Description string
	Language    string
	BaseURL     string
	About       string // trusted HTML
}

// Output is a generated file.
type Output struct {
	Path string
	Data []byte
}

// Generator renders pages through a shared composer.
type Generator struct {
	composer *templates.Composer
	cfg      Config
}

// NewGenerator returns a generator for the given composer and site config.
func NewGenerator(composer *templates.Composer, cfg Config) *Generator {
	if strings.TrimSpace(cfg.About) == "" {
		cfg.About = DefaultAbout
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Generator{composer: composer, cfg: cfg}
}

// PostPage renders a single post at its own output path.
func (g *Generator) PostPage(p docmodel.Post) Output {
	html := g.composer.Compose(templates.Page{
		Title:   p.Title,
		Content: p.HTML,
		Prefix:  p.Prefix,
	})
	return Output{Path: p.OutputPath, Data: []byte(html)}
}

// PostsIndex lists every post in collection order.
func (g *Generator) PostsIndex(posts []docmodel.Post) (Output, error) {
	const title = "All Blog Posts"
	prefix := slug.Prefix("posts")
	cards, err := renderCards(posts, prefix)
	if err != nil {
		return Output{}, err
	}
	return g.aggregate(PostsIndexPath, title, prefix, headedGrid(title, cards)), nil
}

// Homepage lists posts newest first. Posts without a valid date follow all
// dated posts and keep their collection order.
func (g *Generator) Homepage(posts []docmodel.Post) (Output, error) {
	cards, err := renderCards(SortNewestFirst(posts), "")
	if err != nil {
		return Output{}, err
	}
	return g.aggregate(HomepagePath, "Home", "", headedGrid("All Posts", cards)), nil
}

// About renders the configured about page.
func (g *Generator) About() Output {
	return g.aggregate(AboutPath, "About", slug.Prefix("about"), g.cfg.About)
}

func (g *Generator) aggregate(path, title, prefix, content string) Output {
	html := g.composer.Compose(templates.Page{Title: title, Content: content, Prefix: prefix})
	return Output{Path: path, Data: []byte(html)}
}

func headedGrid(heading, cards string) string {
	var b strings.Builder
	b.WriteString("<h1>")
	b.WriteString(escapeText(heading))
	b.WriteString(`</h1><div class="posts-grid">`)
	b.WriteString(cards)
	b.WriteString("</div>")
	return b.String()
}
