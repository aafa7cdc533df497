// Package docmodel holds the values that flow through a build: source
// documents read from the content root and the posts compiled from them.
package docmodel

import (
	"io/fs"
	"path"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// Document is one markdown source file. RelPath is slash separated and
// relative to the content root.
type Document struct {
	RelPath string
	Raw     []byte
}

// ParsedDoc is a Document split into frontmatter metadata and markdown body.
type ParsedDoc struct {
	Document
	Meta frontmatter.Metadata
	Body []byte
}

// Parse splits the document's frontmatter from its body. Malformed
// frontmatter is a fatal frontmatter error naming the source path.
func Parse(doc Document) (*ParsedDoc, error) {
	meta, body, err := frontmatter.Extract(doc.Raw)
	if err != nil {
		return nil, errors.FrontMatterError("malformed frontmatter").WithCause(err).
			WithContext("path", doc.RelPath).
			Build()
	}
	return &ParsedDoc{Document: doc, Meta: meta, Body: body}, nil
}

// ReadFile loads relPath from fsys into a Document.
func ReadFile(fsys fs.FS, relPath string) (Document, error) {
	raw, err := fs.ReadFile(fsys, relPath)
	if err != nil {
		return Document{}, errors.FileSystemError("failed to read document").WithCause(err).
			WithContext("path", relPath).
			Build()
	}
	return Document{RelPath: path.Clean(relPath), Raw: raw}, nil
}

// Post is a compiled document: everything the aggregate pages and the feed
// need, built once per document.
type Post struct {
	Slug        string
	Title       string
	Author      string
	Date        string // raw frontmatter date, for display
	DateISO     string
	DateLabel   string
	Published   time.Time // zero when the date is absent or unparseable
	HTML        string    // metadata block followed by the rendered body
	Minutes     int
	Excerpt     string
	OutputPath  string
	Prefix      string
	SourcePath  string
	Fingerprint string
}

// HasDate reports whether the post carries a parseable publication date.
func (p Post) HasDate() bool { return !p.Published.IsZero() }

// Link returns the post URL relative to a page whose prefix is pagePrefix.
func (p Post) Link(pagePrefix string) string {
	return pagePrefix + p.Slug + "/"
}
