package tui

import (
	"github.com/pders01/rssview/internal/feedreq"
)

// Focus is the component that receives keystrokes.
type Focus int

const (
	FocusInput Focus = iota
	FocusList
)

func (f Focus) String() string {
	if f == FocusList {
		return "list"
	}
	return "input"
}

// responseMsg carries a finished backend request back into Update.
type responseMsg struct {
	seq     uint64
	url     string
	outcome feedreq.Outcome
}

type linkOpenedMsg struct {
	url string
	err error
}
