// Package feedreq implements the feed request lifecycle as a pure state
// machine. Update never performs I/O; it returns the effect the caller should
// run and the caller feeds the result back as a ResponseArrived event.
package feedreq

// State is one immutable snapshot of the viewer. Update returns a new value
// and never mutates the one it was given.
type State struct {
	Input   string
	Request RequestState
	Preview Optional[FeedItem]
	// Guard is the last URL whose request succeeded.
	Guard Optional[string]

	seq uint64
}

func New() State {
	return State{Request: NotAsked{}}
}

// Items returns the displayed items, or nil outside the Displaying phase.
func (s State) Items() []FeedItem {
	if success, ok := s.Request.(Success); ok {
		return success.Items
	}
	return nil
}

// Seq returns the sequence number of the most recently issued request.
func (s State) Seq() uint64 {
	return s.seq
}

// CanSubmit reports whether the submit control is enabled.
func CanSubmit(s State) bool {
	if s.Input == "" {
		return false
	}
	if guard, ok := s.Guard.Get(); ok && guard == s.Input {
		return false
	}
	return true
}

type Event interface {
	event()
}

type InputChanged struct {
	Text string
}

type Submit struct{}

// ResponseArrived carries the classified result of the request issued with
// Seq for URL.
type ResponseArrived struct {
	Seq     uint64
	URL     string
	Outcome Outcome
}

type HoverItem struct {
	Item FeedItem
}

type ClosePreview struct{}

func (InputChanged) event()    {}
func (Submit) event()          {}
func (ResponseArrived) event() {}
func (HoverItem) event()       {}
func (ClosePreview) event()    {}

// Effect describes work the driver must perform. A nil Effect means none.
type Effect interface {
	effect()
}

// FetchFeed asks the driver to request URL from the backend and report back
// with a ResponseArrived carrying the same Seq.
type FetchFeed struct {
	Seq uint64
	URL string
}

func (FetchFeed) effect() {}

// Update applies ev to s.
func Update(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case InputChanged:
		s.Input = ev.Text
		return s, nil

	case Submit:
		if !CanSubmit(s) {
			return s, nil
		}
		s.seq++
		s.Request = Loading{}
		s.Preview = None[FeedItem]()
		return s, FetchFeed{Seq: s.seq, URL: s.Input}

	case ResponseArrived:
		// Only the newest request may settle the state.
		if ev.Seq != s.seq {
			return s, nil
		}
		if _, loading := s.Request.(Loading); !loading {
			return s, nil
		}
		switch o := ev.Outcome.(type) {
		case Fetched:
			s.Request = Success{Items: o.Items}
			s.Guard = Some(ev.URL)
		case Failed:
			s.Request = Failure{Message: o.Reason()}
		default:
			s.Request = Failure{Message: TransportFailure{Kind: TransportUnexpected}.Reason()}
		}
		return s, nil

	case HoverItem:
		if PhaseOf(s.Request) != PhaseDisplaying {
			return s, nil
		}
		s.Preview = Some(ev.Item)
		return s, nil

	case ClosePreview:
		s.Preview = None[FeedItem]()
		return s, nil
	}

	return s, nil
}
