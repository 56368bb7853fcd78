package feedreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	itemA = FeedItem{Title: "A", Link: "http://x/a", Description: "first"}
	itemB = FeedItem{Title: "B", PubDate: Some("2020-01-01"), Link: "http://x/b", Description: "second"}
)

// apply runs events in order and collects the effects returned.
func apply(s State, events ...Event) (State, []Effect) {
	var effects []Effect
	for _, ev := range events {
		var eff Effect
		s, eff = Update(s, ev)
		if eff != nil {
			effects = append(effects, eff)
		}
	}
	return s, effects
}

func displaying(t *testing.T, url string, items ...FeedItem) State {
	t.Helper()
	s, effects := apply(New(), InputChanged{Text: url}, Submit{})
	require.Len(t, effects, 1)
	fetch := effects[0].(FetchFeed)
	s, _ = Update(s, ResponseArrived{Seq: fetch.Seq, URL: fetch.URL, Outcome: Fetched{Items: items}})
	require.Equal(t, PhaseDisplaying, PhaseOf(s.Request))
	return s
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.Input)
	assert.Equal(t, NotAsked{}, s.Request)
	assert.Equal(t, PhaseIdle, PhaseOf(s.Request))
	assert.False(t, s.Preview.IsSome())
	assert.False(t, s.Guard.IsSome())
	assert.False(t, CanSubmit(s))
}

func TestInputChanged(t *testing.T) {
	s, eff := Update(New(), InputChanged{Text: "http://feed"})
	assert.Nil(t, eff)
	assert.Equal(t, "http://feed", s.Input)
	assert.Equal(t, PhaseIdle, PhaseOf(s.Request))
}

func TestSubmit(t *testing.T) {
	t.Run("non-empty input issues exactly one fetch", func(t *testing.T) {
		s, effects := apply(New(), InputChanged{Text: "http://feed"}, Submit{})
		require.Len(t, effects, 1)
		assert.Equal(t, FetchFeed{Seq: 1, URL: "http://feed"}, effects[0])
		assert.Equal(t, Loading{}, s.Request)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		s, effects := apply(New(), Submit{})
		assert.Empty(t, effects)
		assert.Equal(t, NotAsked{}, s.Request)
		assert.Equal(t, uint64(0), s.Seq())
	})

	t.Run("input equal to guard is a no-op", func(t *testing.T) {
		s := displaying(t, "http://feed", itemA)
		next, eff := Update(s, Submit{})
		assert.Nil(t, eff)
		assert.Equal(t, s, next)
		assert.False(t, CanSubmit(s))
	})

	t.Run("changing input away from guard re-enables submit", func(t *testing.T) {
		s := displaying(t, "http://feed", itemA)
		s, _ = Update(s, InputChanged{Text: "http://other"})
		assert.True(t, CanSubmit(s))
		s, _ = Update(s, InputChanged{Text: "http://feed"})
		assert.False(t, CanSubmit(s))
	})

	t.Run("input is passed through as typed", func(t *testing.T) {
		_, effects := apply(New(), InputChanged{Text: " example.com/rss?a=1&b=2 "}, Submit{})
		require.Len(t, effects, 1)
		assert.Equal(t, " example.com/rss?a=1&b=2 ", effects[0].(FetchFeed).URL)
	})

	t.Run("resubmitting while loading is allowed", func(t *testing.T) {
		_, effects := apply(New(), InputChanged{Text: "http://feed"}, Submit{}, Submit{})
		require.Len(t, effects, 2)
		assert.Equal(t, uint64(1), effects[0].(FetchFeed).Seq)
		assert.Equal(t, uint64(2), effects[1].(FetchFeed).Seq)
	})
}

func TestResponseArrived(t *testing.T) {
	loading := func() State {
		s, _ := apply(New(), InputChanged{Text: "http://feed"}, Submit{})
		return s
	}

	t.Run("fetched items display and set guard", func(t *testing.T) {
		s, eff := Update(loading(), ResponseArrived{Seq: 1, URL: "http://feed", Outcome: Fetched{Items: []FeedItem{itemA}}})
		assert.Nil(t, eff)
		assert.Equal(t, Success{Items: []FeedItem{itemA}}, s.Request)
		assert.Equal(t, []FeedItem{itemA}, s.Items())
		guard, ok := s.Guard.Get()
		assert.True(t, ok)
		assert.Equal(t, "http://feed", guard)
	})

	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{"client failure", ClientFailure{Status: 404, Message: "feed not found"}, "feed not found"},
		{"server failure", ServerFailure{Status: 500, Message: "Internal Server Error"}, "Internal Server Error"},
		{"decode failure", DecodeFailure{Status: 200, Message: "expecting a JSON array of feed items"}, "expecting a JSON array of feed items"},
		{"transport failure", TransportFailure{Kind: TransportTimeout}, "request timed out"},
		{"missing outcome", nil, "unexpected response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, eff := Update(loading(), ResponseArrived{Seq: 1, URL: "http://feed", Outcome: tt.outcome})
			assert.Nil(t, eff)
			assert.Equal(t, Failure{Message: tt.want}, s.Request)
			assert.Nil(t, s.Items())
			assert.False(t, s.Guard.IsSome(), "failures never update the guard")
		})
	}

	t.Run("failure after display clears items and keeps old guard", func(t *testing.T) {
		s := displaying(t, "http://feed", itemA)
		s, effects := apply(s, InputChanged{Text: "http://broken"}, Submit{})
		require.Len(t, effects, 1)
		seq := effects[0].(FetchFeed).Seq
		s, _ = Update(s, ResponseArrived{Seq: seq, URL: "http://broken", Outcome: DecodeFailure{Message: "bad"}})
		assert.Equal(t, Failure{Message: "bad"}, s.Request)
		assert.Nil(t, s.Items())
		assert.Equal(t, "http://feed", s.Guard.OrElse(""))
	})

	t.Run("stale response is dropped", func(t *testing.T) {
		s, effects := apply(New(), InputChanged{Text: "http://one"}, Submit{}, InputChanged{Text: "http://two"}, Submit{})
		require.Len(t, effects, 2)

		s, _ = Update(s, ResponseArrived{Seq: 1, URL: "http://one", Outcome: Fetched{Items: []FeedItem{itemA}}})
		assert.Equal(t, Loading{}, s.Request)
		assert.False(t, s.Guard.IsSome())

		s, _ = Update(s, ResponseArrived{Seq: 2, URL: "http://two", Outcome: Fetched{Items: []FeedItem{itemB}}})
		assert.Equal(t, []FeedItem{itemB}, s.Items())
		assert.Equal(t, "http://two", s.Guard.OrElse(""))
	})

	t.Run("stale response after settle is dropped", func(t *testing.T) {
		s, _ := apply(New(), InputChanged{Text: "http://one"}, Submit{}, InputChanged{Text: "http://two"}, Submit{})
		s, _ = Update(s, ResponseArrived{Seq: 2, URL: "http://two", Outcome: Fetched{Items: []FeedItem{itemB}}})
		s, _ = Update(s, ResponseArrived{Seq: 1, URL: "http://one", Outcome: ServerFailure{Message: "late"}})
		assert.Equal(t, []FeedItem{itemB}, s.Items())
	})

	t.Run("duplicate response for settled request is dropped", func(t *testing.T) {
		s, _ := Update(loading(), ResponseArrived{Seq: 1, URL: "http://feed", Outcome: Fetched{Items: []FeedItem{itemA}}})
		s, _ = Update(s, ResponseArrived{Seq: 1, URL: "http://feed", Outcome: ServerFailure{Message: "again"}})
		assert.Equal(t, []FeedItem{itemA}, s.Items())
	})
}

func TestPreview(t *testing.T) {
	t.Run("hover sets preview and replaces previous", func(t *testing.T) {
		s := displaying(t, "http://feed", itemA, itemB)
		s, _ = Update(s, HoverItem{Item: itemA})
		assert.Equal(t, itemA, s.Preview.OrElse(FeedItem{}))
		s, _ = Update(s, HoverItem{Item: itemB})
		assert.Equal(t, itemB, s.Preview.OrElse(FeedItem{}))
	})

	t.Run("close clears preview", func(t *testing.T) {
		s := displaying(t, "http://feed", itemA)
		s, _ = apply(s, HoverItem{Item: itemA}, ClosePreview{})
		assert.False(t, s.Preview.IsSome())
	})

	t.Run("close without preview is harmless", func(t *testing.T) {
		s, eff := Update(New(), ClosePreview{})
		assert.Nil(t, eff)
		assert.False(t, s.Preview.IsSome())
	})

	t.Run("hover outside displaying is ignored", func(t *testing.T) {
		s, _ := Update(New(), HoverItem{Item: itemA})
		assert.False(t, s.Preview.IsSome())
	})

	t.Run("new submission clears preview mid-flight", func(t *testing.T) {
		s := displaying(t, "http://feed", itemA)
		s, _ = Update(s, HoverItem{Item: itemA})
		s, effects := apply(s, InputChanged{Text: "http://other"}, Submit{})
		require.Len(t, effects, 1)
		assert.Equal(t, Loading{}, s.Request)
		assert.False(t, s.Preview.IsSome())

		s, _ = Update(s, HoverItem{Item: itemA})
		assert.False(t, s.Preview.IsSome(), "no preview while loading")
	})

	t.Run("preview holds a copy of the item", func(t *testing.T) {
		items := []FeedItem{itemA}
		s := displaying(t, "http://feed", items...)
		s, _ = Update(s, HoverItem{Item: items[0]})
		items[0].Title = "mutated"
		assert.Equal(t, "A", s.Preview.OrElse(FeedItem{}).Title)
	})
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	before := displaying(t, "http://feed", itemA)
	snapshot := before
	_, _ = apply(before, HoverItem{Item: itemA}, InputChanged{Text: "x"}, Submit{})
	assert.Equal(t, snapshot, before)
}
