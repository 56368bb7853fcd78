package feedsrv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name          string
		feedContent   string
		expectError   bool
		expectedCount int
		validateFunc  func(t *testing.T, items []Item)
	}{
		{
			name: "RSS 2.0 feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Test RSS Feed</title>
		<link>http://example.com</link>
		<description>Test Description</description>
		<item>
			<title>  First Article </title>
			<link>http://example.com/article1</link>
			<description><![CDATA[<p>This is the <b>first</b> article</p>]]></description>
			<pubDate>Wed, 01 Jan 2025 12:00:00 GMT</pubDate>
		</item>
		<item>
			<title>Second Article</title>
			<link>http://example.com/article2</link>
			<description>Fish &amp;amp; Chips</description>
		</item>
	</channel>
</rss>`,
			expectedCount: 2,
			validateFunc: func(t *testing.T, items []Item) {
				assert.Equal(t, "First Article", items[0].Title)
				assert.Equal(t, "http://example.com/article1", items[0].Link)
				assert.Equal(t, "This is the first article", items[0].Description)
				require.NotNil(t, items[0].PubDate)
				assert.Equal(t, "Wed, 01 Jan 2025 12:00:00 GMT", *items[0].PubDate)

				assert.Equal(t, "Fish & Chips", items[1].Description)
				assert.Nil(t, items[1].PubDate)
			},
		},
		{
			name: "Atom feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<link href="http://example.org/"/>
	<updated>2025-01-01T12:00:00Z</updated>
	<entry>
		<title>Atom Entry 1</title>
		<link href="http://example.org/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<published>2024-12-31T08:00:00Z</published>
		<updated>2025-01-01T12:00:00Z</updated>
		<summary>Entry summary</summary>
	</entry>
	<entry>
		<title>Atom Entry 2</title>
		<link href="http://example.org/entry2"/>
		<id>urn:uuid:2</id>
		<updated>2025-01-02T12:00:00Z</updated>
		<content type="html">&lt;p&gt;Only content&lt;/p&gt;</content>
	</entry>
</feed>`,
			expectedCount: 2,
			validateFunc: func(t *testing.T, items []Item) {
				assert.Equal(t, "Atom Entry 1", items[0].Title)
				assert.Equal(t, "http://example.org/entry1", items[0].Link)
				assert.Equal(t, "Entry summary", items[0].Description)
				require.NotNil(t, items[0].PubDate)
				assert.Equal(t, "2024-12-31T08:00:00Z", *items[0].PubDate)

				assert.Equal(t, "Only content", items[1].Description)
				require.NotNil(t, items[1].PubDate)
				assert.Equal(t, "2025-01-02T12:00:00Z", *items[1].PubDate)
			},
		},
		{
			name: "YouTube channel feed with media group description",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
	<title>Channel</title>
	<entry>
		<id>yt:video:abc123</id>
		<yt:videoId>abc123</yt:videoId>
		<title>A Video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=abc123"/>
		<published>2025-02-01T10:00:00+00:00</published>
		<updated>2025-02-02T10:00:00+00:00</updated>
		<media:group>
			<media:title>A Video</media:title>
			<media:content url="https://www.youtube.com/v/abc123" type="application/x-shockwave-flash"/>
			<media:description>The video description</media:description>
		</media:group>
	</entry>
	<entry>
		<id>yt:video:def456</id>
		<title>Summarised Video</title>
		<link rel="alternate" href="https://www.youtube.com/watch?v=def456"/>
		<summary>Summary wins</summary>
		<media:group>
			<media:description>Ignored</media:description>
		</media:group>
	</entry>
</feed>`,
			expectedCount: 2,
			validateFunc: func(t *testing.T, items []Item) {
				assert.Equal(t, "A Video", items[0].Title)
				assert.Equal(t, "https://www.youtube.com/watch?v=abc123", items[0].Link)
				assert.Equal(t, "The video description", items[0].Description)
				require.NotNil(t, items[0].PubDate)
				assert.Equal(t, "2025-02-01T10:00:00+00:00", *items[0].PubDate)

				assert.Equal(t, "Summary wins", items[1].Description)
			},
		},
		{
			name: "RSS 1.0 feed",
			feedContent: `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns="http://purl.org/rss/1.0/">
	<channel rdf:about="http://example.net/">
		<title>RDF Feed</title>
		<link>http://example.net/</link>
		<description>RDF Description</description>
	</channel>
	<item rdf:about="http://example.net/one">
		<title>RDF Item</title>
		<link>http://example.net/one</link>
		<description>An RDF item</description>
	</item>
</rdf:RDF>`,
			expectedCount: 1,
			validateFunc: func(t *testing.T, items []Item) {
				assert.Equal(t, "RDF Item", items[0].Title)
				assert.Equal(t, "http://example.net/one", items[0].Link)
				assert.Equal(t, "An RDF item", items[0].Description)
			},
		},
		{
			name: "empty channel",
			feedContent: `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Empty</title></channel></rss>`,
			expectedCount: 0,
		},
		{
			name:        "not a feed",
			feedContent: `this is plain text, not a feed`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parser.Parse(strings.NewReader(tt.feedContent))
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, items)
			require.Len(t, items, tt.expectedCount)
			if tt.validateFunc != nil {
				tt.validateFunc(t, items)
			}
		})
	}
}

func TestParser_PlainText(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"plain", "plain"},
		{"  <div>\n<p>nested <a href=\"x\">link</a></p></div> ", "nested link"},
		{"<script>alert(1)</script>text", "text"},
		{"caf&eacute; &lt;3", "café <3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parser.plainText(tt.input), "input %q", tt.input)
	}
}
