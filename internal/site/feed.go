package site

import (
	"encoding/xml"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// DefaultBaseURL is the feed base used for local previews.
const DefaultBaseURL = "http://127.0.0.1:3000"

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// Feed renders an RSS 2.0 document with one item per post in collection
// order. Posts without a valid date have no pubDate.
func (g *Generator) Feed(posts []docmodel.Post) (Output, error) {
	base := g.baseURL()
	doc := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       g.cfg.Title,
			Link:        base + "/",
			Description: g.cfg.Description,
			Language:    g.cfg.Language,
			Items:       make([]rssItem, 0, len(posts)),
		},
	}
	for _, p := range posts {
		item := rssItem{
			Title:       p.Title,
			Link:        base + "/" + p.Slug + "/",
			Description: p.Excerpt,
		}
		if p.HasDate() {
			item.PubDate = p.Published.UTC().Format(time.RFC1123Z)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Output{}, errors.BuildError("failed to encode feed").WithCause(err).Build()
	}
	data := make([]byte, 0, len(xml.Header)+len(body)+1)
	data = append(data, xml.Header...)
	data = append(data, body...)
	data = append(data, '\n')
	return Output{Path: FeedPath, Data: data}, nil
}

func (g *Generator) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(g.cfg.BaseURL), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}
