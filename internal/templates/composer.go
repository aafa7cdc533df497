package templates

import (
	stderrors "errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Placeholders recognized by the composer.
const (
	PlaceholderHeader  = "{{HEADER}}"
	PlaceholderFooter  = "{{FOOTER}}"
	PlaceholderTitle   = "{{TITLE}}"
	PlaceholderContent = "{{CONTENT}}"
	PlaceholderPrefix  = "{{PREFIX}}"
	PlaceholderVersion = "{{VERSION}}"
)

// ErrMissingPlaceholder is returned when the layout lacks a required slot.
var ErrMissingPlaceholder = stderrors.New("layout is missing a required placeholder")

var requiredLayoutPlaceholders = []string{PlaceholderHeader, PlaceholderFooter, PlaceholderContent}

// Templates is the raw template text a site is rendered with.
type Templates struct {
	Layout string
	Header string
	Footer string
}

// Page is one unit of composition.
type Page struct {
	Title   string // plain text, escaped on output
	Content string // trusted HTML, inserted as is
	Prefix  string // relative path back to the site root
}

// Composer renders pages against a fixed set of templates. It holds no
// mutable state and is safe for concurrent use.
type Composer struct {
	tpl     Templates
	version string
}

// NewComposer validates the layout and returns a composer stamping version
// into every page.
func NewComposer(tpl Templates, version string) (*Composer, error) {
	var missing []string
	for _, p := range requiredLayoutPlaceholders {
		if !strings.Contains(tpl.Layout, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, errors.TemplateError("invalid layout template").
			WithCause(fmt.Errorf("%w: %s", ErrMissingPlaceholder, strings.Join(missing, ", "))).
			WithContext("missing", strings.Join(missing, ",")).
			Build()
	}
	return &Composer{tpl: tpl, version: version}, nil
}

// Version returns the version string stamped into pages.
func (c *Composer) Version() string { return c.version }

// Compose renders a page.
func (c *Composer) Compose(p Page) string {
	title := html.EscapeString(p.Title)

	partials := strings.NewReplacer(
		PlaceholderPrefix, p.Prefix,
		PlaceholderTitle, title,
	)
	header := partials.Replace(c.tpl.Header)
	footer := partials.Replace(c.tpl.Footer)

	out := strings.NewReplacer(
		PlaceholderHeader, header,
		PlaceholderFooter, footer,
		PlaceholderTitle, title,
		PlaceholderPrefix, p.Prefix,
		PlaceholderContent, p.Content,
	).Replace(c.tpl.Layout)

	return strings.ReplaceAll(out, PlaceholderVersion, c.version)
}
