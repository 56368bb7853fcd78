package tui

import "fmt"

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

const (
	MsgLoadingFeed = "Loading feed…"
	MsgNoItems     = "The feed has no items"
)

func MsgItemsCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

func MsgOpened(url string) string {
	return "Opened " + url
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) renderStatus() string {
	switch a.statusKind {
	case StatusSuccess:
		return StatusSuccessStyle.Render(a.status)
	case StatusError:
		return StatusErrorStyle.Render(a.status)
	default:
		return StatusInfoStyle.Render(a.status)
	}
}
