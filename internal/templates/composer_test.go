package templates

import (
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLayout = `<html><head><title>{{TITLE}}</title>` +
	`<link rel="stylesheet" href="{{PREFIX}}style.css"></head>` +
	`<body>{{HEADER}}<main>{{CONTENT}}</main>{{FOOTER}}</body></html>`

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(Templates{
		Layout: testLayout,
		Header: `<nav><a href="{{PREFIX}}index.html">Home</a> {{TITLE}}</nav>`,
		Footer: `<footer><a href="{{PREFIX}}feed.xml">RSS</a> v{{VERSION}}</footer>`,
	}, "1.2.3")
	require.NoError(t, err)
	return c
}

func TestCompose_ReplacesEveryPrefix(t *testing.T) {
	c := newTestComposer(t)

	out := c.Compose(Page{Title: "Post", Content: `<p><a href="{{PREFIX}}x">x</a></p>`, Prefix: "../../"})

	// layout (1) + header (1) + footer (1); the one inside content stays literal.
	assert.Equal(t, 3, strings.Count(out, `"../../`))
	assert.Contains(t, out, `href="{{PREFIX}}x"`)
	assert.NotContains(t, out, "{{HEADER}}")
	assert.NotContains(t, out, "{{FOOTER}}")
}

func TestCompose_FourPrefixesAcrossLayoutAndPartials(t *testing.T) {
	c, err := NewComposer(Templates{
		Layout: `<a href="{{PREFIX}}a">{{HEADER}}<b href="{{PREFIX}}b">{{CONTENT}}{{FOOTER}}`,
		Header: `<h href="{{PREFIX}}h">`,
		Footer: `<f href="{{PREFIX}}f">`,
	}, "dev")
	require.NoError(t, err)

	out := c.Compose(Page{Title: "t", Content: "c", Prefix: "../"})

	assert.Equal(t, 4, strings.Count(out, "../"))
	assert.NotContains(t, out, "{{PREFIX}}")
}

func TestCompose_TitleEscapedContentNot(t *testing.T) {
	c := newTestComposer(t)

	out := c.Compose(Page{Title: `Tom & "Jerry" <3`, Content: "<em>raw</em>"})

	assert.Contains(t, out, "<title>Tom &amp; &#34;Jerry&#34; &lt;3</title>")
	assert.Contains(t, out, "<main><em>raw</em></main>")
	assert.Contains(t, out, `<nav><a href="index.html">Home</a> Tom &amp;`)
}

func TestCompose_VersionEverywhere(t *testing.T) {
	c := newTestComposer(t)

	out := c.Compose(Page{Title: "t", Content: "built with {{VERSION}}"})

	assert.Contains(t, out, "v1.2.3</footer>")
	assert.Contains(t, out, "built with 1.2.3")
	assert.NotContains(t, out, "{{VERSION}}")
	assert.Equal(t, "1.2.3", c.Version())
}

func TestCompose_UnknownPlaceholderUntouched(t *testing.T) {
	c := newTestComposer(t)
	out := c.Compose(Page{Content: "{{UNKNOWN}}"})
	assert.Contains(t, out, "{{UNKNOWN}}")
}

func TestCompose_ConcurrentUse(t *testing.T) {
	c := newTestComposer(t)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := c.Compose(Page{Title: "t", Content: strings.Repeat("x", i)})
			assert.Contains(t, out, "<main>"+strings.Repeat("x", i)+"</main>")
		}()
	}
	wg.Wait()
}

func TestNewComposer_MissingPlaceholder(t *testing.T) {
	_, err := NewComposer(Templates{Layout: "<body>{{HEADER}}</body>"}, "dev")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPlaceholder)
	assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
	assert.Contains(t, err.Error(), "{{CONTENT}}")
	assert.Contains(t, err.Error(), "{{FOOTER}}")
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layout.html":          {Data: []byte(testLayout)},
		"templates/partials/header.html": {Data: []byte("<header/>")},
		"templates/partials/footer.html": {Data: []byte("<footer/>")},
	}
	paths := Paths{
		Layout: "templates/layout.html",
		Header: "templates/partials/header.html",
		Footer: "templates/partials/footer.html",
	}

	tpl, err := Load(fsys, paths)
	require.NoError(t, err)
	assert.Equal(t, testLayout, tpl.Layout)
	assert.Equal(t, "<header/>", tpl.Header)
	assert.Equal(t, "<footer/>", tpl.Footer)

	delete(fsys, "templates/partials/footer.html")
	_, err = Load(fsys, paths)
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryTemplate, classified.Category())
	p, _ := classified.Context().GetString("path")
	assert.Equal(t, "templates/partials/footer.html", p)
}
