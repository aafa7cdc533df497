package postmeta

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title picks the display title of a post: the explicit value when present,
// otherwise the text of the first <h1> in the rendered body, otherwise the
// file name title-cased.
func Title(explicit, renderedHTML, relPath string) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if t := FirstHeading(renderedHTML); t != "" {
		return t
	}
	return TitleFromPath(relPath)
}

// FirstHeading returns the collapsed text content of the first h1 element.
func FirstHeading(fragment string) string {
	if !strings.Contains(fragment, "<h1") {
		return ""
	}
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "h1" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if found == nil {
		return ""
	}
	var b strings.Builder
	collectText(found, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// TitleFromPath turns "guides/getting_started-fast.md" into "Getting Started Fast".
func TitleFromPath(relPath string) string {
	name := path.Base(strings.ReplaceAll(relPath, "\\", "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || name == "." || name == "/" {
		return "Untitled"
	}
	return cases.Title(language.English).String(name)
}
