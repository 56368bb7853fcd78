package feedreq

// FeedItem is one entry of a feed as returned by the backend.
type FeedItem struct {
	Title       string
	PubDate     Optional[string]
	Link        string
	Description string
}

// RequestState is the lifecycle of the current feed request. Exactly one of
// NotAsked, Loading, Success or Failure.
type RequestState interface {
	requestState()
}

type NotAsked struct{}

type Loading struct{}

type Success struct {
	Items []FeedItem
}

type Failure struct {
	Message string
}

func (NotAsked) requestState() {}
func (Loading) requestState()  {}
func (Success) requestState()  {}
func (Failure) requestState()  {}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseDisplaying
	PhaseErroring
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseDisplaying:
		return "displaying"
	case PhaseErroring:
		return "erroring"
	default:
		return "unknown"
	}
}

// PhaseOf maps a request state onto the machine phase it represents.
func PhaseOf(rs RequestState) Phase {
	switch rs.(type) {
	case Loading:
		return PhaseLoading
	case Success:
		return PhaseDisplaying
	case Failure:
		return PhaseErroring
	default:
		return PhaseIdle
	}
}
