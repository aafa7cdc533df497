// Package pipeline compiles a single source document into a post. A
// Processor is stateless between calls and safe for concurrent use, so the
// build fans documents out to it from worker goroutines.
package pipeline

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/postmeta"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// Processor turns documents into posts.
type Processor struct {
	renderer       *markdown.Renderer
	wordsPerMinute int
	excerptLength  int
	defaultAuthor  string
}

// Option configures a Processor.
type Option func(*Processor)

// WithWordsPerMinute sets the reading speed used for reading time.
func WithWordsPerMinute(wpm int) Option {
	return func(p *Processor) {
		if wpm > 0 {
			p.wordsPerMinute = wpm
		}
	}
}

// WithExcerptLength sets the excerpt budget in runes.
func WithExcerptLength(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.excerptLength = n
		}
	}
}

// WithDefaultAuthor sets the author used when a post names none.
func WithDefaultAuthor(author string) Option {
	return func(p *Processor) {
		p.defaultAuthor = strings.TrimSpace(author)
	}
}

// NewProcessor returns a processor rendering markdown with r.
func NewProcessor(r *markdown.Renderer, opts ...Option) *Processor {
	if r == nil {
		r = markdown.NewRenderer()
	}
	p := &Processor{
		renderer:       r,
		wordsPerMinute: postmeta.DefaultWordsPerMinute,
		excerptLength:  postmeta.DefaultExcerptLength,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compile builds a post from doc. Frontmatter, slug and rendering failures
// are fatal and carry the source path; a missing title, author or date
// degrades to a fallback.
func (p *Processor) Compile(ctx context.Context, doc docmodel.Document) (docmodel.Post, error) {
	parsed, err := docmodel.Parse(doc)
	if err != nil {
		return docmodel.Post{}, err
	}

	override, _ := parsed.Meta.String("slug")
	s, err := slug.Resolve(doc.RelPath, override)
	if err != nil {
		return docmodel.Post{}, errors.ValidationError("cannot resolve slug").WithCause(err).
			WithContext("path", doc.RelPath).
			WithContext("slug", override).
			Build()
	}

	body, err := p.renderer.Render(ctx, parsed.Body)
	if err != nil {
		return docmodel.Post{}, errors.BuildError("markdown rendering failed").WithCause(err).
			WithContext("path", doc.RelPath).
			WithContext("slug", s).
			Build()
	}

	bodyMD := string(parsed.Body)
	explicitTitle, _ := parsed.Meta.String("title")
	author, ok := parsed.Meta.String("author")
	if !ok {
		author = p.defaultAuthor
	}
	rawDate, _ := parsed.Meta.Raw("date")
	date := postmeta.FormatDate(rawDate)
	displayDate, ok := parsed.Meta.String("date")
	if !ok {
		displayDate = date.Label
	}
	minutes := postmeta.ReadingTime(bodyMD, p.wordsPerMinute)

	return docmodel.Post{
		Slug:        s,
		Title:       postmeta.Title(explicitTitle, body, doc.RelPath),
		Author:      author,
		Date:        displayDate,
		DateISO:     date.ISO,
		DateLabel:   date.Label,
		Published:   date.Time,
		HTML:        site.MetaBlock(author, minutes, date.ISO, date.Label) + "\n" + body,
		Minutes:     minutes,
		Excerpt:     postmeta.Excerpt(bodyMD, p.excerptLength),
		OutputPath:  slug.OutputPath(s),
		Prefix:      slug.Prefix(s),
		SourcePath:  doc.RelPath,
		Fingerprint: postmeta.Fingerprint(doc.Raw),
	}, nil
}
