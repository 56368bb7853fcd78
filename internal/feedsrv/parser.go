package feedsrv

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// Item is the wire form of one feed entry.
type Item struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	PubDate     *string `json:"pub_date"`
}

// Parser turns RSS 2.0, RSS 1.0 and Atom documents into Items.
type Parser struct {
	parser *gofeed.Parser
	policy *bluemonday.Policy
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
		policy: bluemonday.StrictPolicy(),
	}
}

func (p *Parser) Parse(reader io.Reader) ([]Item, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, Item{
			Title:       strings.TrimSpace(entry.Title),
			Description: p.plainText(description(entry)),
			Link:        entry.Link,
			PubDate:     pubDate(entry),
		})
	}
	return items, nil
}

func description(entry *gofeed.Item) string {
	if entry.Description != "" {
		return entry.Description
	}
	if entry.Content != "" {
		return entry.Content
	}
	return mediaDescription(entry)
}

// mediaDescription reads the Media RSS description YouTube channel feeds put
// inside media:group; gofeed keeps it only as an extension.
func mediaDescription(entry *gofeed.Item) string {
	media := entry.Extensions["media"]
	for _, group := range media["group"] {
		for _, desc := range group.Children["description"] {
			if desc.Value != "" {
				return desc.Value
			}
		}
	}
	for _, desc := range media["description"] {
		if desc.Value != "" {
			return desc.Value
		}
	}
	return ""
}

// pubDate keeps the feed's own date text; Atom entries without a published
// date fall back to updated.
func pubDate(entry *gofeed.Item) *string {
	for _, candidate := range []string{entry.Published, entry.Updated} {
		if s := strings.TrimSpace(candidate); s != "" {
			return &s
		}
	}
	return nil
}

// plainText reduces an HTML fragment to its text content.
func (p *Parser) plainText(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(fragment)))
}
