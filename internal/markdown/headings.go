package markdown

import (
	"strconv"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// headingIDs generates GitHub-style anchors: lowercase, whitespace becomes
// '-', punctuation is dropped, repeats get a -1, -2, ... suffix.
type headingIDs struct {
	used map[string]struct{}
}

var _ parser.IDs = (*headingIDs)(nil)

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: make(map[string]struct{})}
}

// Generate implements parser.IDs.
func (s *headingIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "heading"
		if kind != gmast.KindHeading {
			base = "id"
		}
	}
	id := base
	for i := 1; ; i++ {
		if _, taken := s.used[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = struct{}{}
	return []byte(id)
}

// Put implements parser.IDs.
func (s *headingIDs) Put(value []byte) {
	s.used[string(value)] = struct{}{}
}

// Slugify converts heading text into an anchor id without de-duplication.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	return b.String()
}

// headingLinker wraps the content of every heading in a link to its own anchor.
type headingLinker struct{}

// Transform implements parser.ASTTransformer.
func (headingLinker) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		id, ok := headingID(heading)
		if !ok || !heading.HasChildren() {
			return gmast.WalkSkipChildren, nil
		}

		link := gmast.NewLink()
		link.Destination = []byte("#" + id)
		for child := heading.FirstChild(); child != nil; {
			next := child.NextSibling()
			heading.RemoveChild(heading, child)
			link.AppendChild(link, child)
			child = next
		}
		heading.AppendChild(heading, link)
		return gmast.WalkSkipChildren, nil
	})
}

func headingID(h *gmast.Heading) (string, bool) {
	v, ok := h.AttributeString("id")
	if !ok {
		return "", false
	}
	switch id := v.(type) {
	case []byte:
		return string(id), len(id) > 0
	case string:
		return id, id != ""
	}
	return "", false
}
