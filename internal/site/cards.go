package site

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

var cardTemplate = template.Must(template.New("card").Parse(`
<article class="post-card">
  <div class="meta">{{.Author}} · {{.Minutes}} min read · {{.Date}}</div>
  <h2><a href="{{.Href}}">{{.Title}}</a></h2>
  <p class="excerpt">{{.Excerpt}}</p>
</article>`))

type card struct {
	Author  string
	Minutes int
	Date    string
	Href    template.URL
	Title   string
	Excerpt string
}

// renderCards renders post cards linking relative to a page at prefix.
func renderCards(posts []docmodel.Post, prefix string) (string, error) {
	var buf bytes.Buffer
	for _, p := range posts {
		c := card{
			Author:  p.Author,
			Minutes: p.Minutes,
			Date:    p.Date,
			Href:    template.URL(p.Link(prefix)),
			Title:   p.Title,
			Excerpt: p.Excerpt,
		}
		if err := cardTemplate.Execute(&buf, c); err != nil {
			return "", errors.TemplateError("failed to render post card").WithCause(err).
				WithContext("slug", p.Slug).
				WithContext("path", p.SourcePath).
				Build()
		}
	}
	return buf.String(), nil
}

// SortNewestFirst returns a copy of posts ordered by publication date,
// newest first. Undated posts go last in their original order.
func SortNewestFirst(posts []docmodel.Post) []docmodel.Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b docmodel.Post) int {
		switch {
		case a.HasDate() && b.HasDate():
			return b.Published.Compare(a.Published)
		case a.HasDate():
			return -1
		case b.HasDate():
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// MetaBlock is the byline prepended to every rendered post body.
func MetaBlock(author string, minutes int, dateISO, dateLabel string) string {
	var b strings.Builder
	b.WriteString(`<p class="post-meta">`)
	if author != "" {
		fmt.Fprintf(&b, "By %s · ", escapeText(author))
	}
	fmt.Fprintf(&b, `%d min read · <time datetime="%s">%s</time></p>`,
		minutes, escapeText(dateISO), escapeText(dateLabel))
	return b.String()
}

func escapeText(s string) string { return html.EscapeString(s) }
