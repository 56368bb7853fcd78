package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/rssview/internal/debuglog"
	"github.com/pders01/rssview/internal/feedreq"
)

// fetchFeed runs the request issued as seq. The backend client turns every
// failure into an Outcome, so the command always answers with a responseMsg.
func (a *App) fetchFeed(seq uint64, url string) tea.Cmd {
	ctx, backend := a.ctx, a.backend
	return func() tea.Msg {
		debuglog.Debugf("request %d: fetching %s", seq, url)
		return responseMsg{
			seq:     seq,
			url:     url,
			outcome: backend.Get(ctx, url),
		}
	}
}

func (a *App) openLink(url string) tea.Cmd {
	if url == "" {
		a.setStatus("This item has no link", StatusError)
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		return linkOpenedMsg{url: url, err: opener.Open(url)}
	}
}

func previewMarkdown(item feedreq.FeedItem) string {
	var content strings.Builder
	content.WriteString(fmt.Sprintf("# %s\n\n", item.Title))

	if date, ok := item.PubDate.Get(); ok {
		content.WriteString(fmt.Sprintf("*%s*\n\n", date))
	}
	if item.Link != "" {
		content.WriteString(fmt.Sprintf("[%s](%s)\n\n", item.Link, item.Link))
	}

	content.WriteString("---\n\n")
	content.WriteString(item.Description)
	return content.String()
}

// renderPreview renders the item with glamour, falling back to plain text.
func (a *App) renderPreview(item feedreq.FeedItem) string {
	plain := item.Title + "\n\n" + item.Description

	r, err := a.getRenderer()
	if err != nil {
		debuglog.Warnf("initializing renderer: %v", err)
		return plain
	}

	rendered, err := r.Render(previewMarkdown(item))
	if err != nil {
		debuglog.Warnf("rendering preview: %v", err)
		return plain
	}
	return rendered
}
