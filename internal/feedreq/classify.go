package feedreq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Outcome is the classified result of one completed feed request.
type Outcome interface {
	outcome()
}

// Failed is implemented by every non-success Outcome.
type Failed interface {
	Outcome
	Reason() string
}

// Fetched is a 2xx response whose body decoded into items.
type Fetched struct {
	Items []FeedItem
}

// ClientFailure is a 4xx response.
type ClientFailure struct {
	Status  int
	Message string
}

// ServerFailure is a 5xx or otherwise unexpected status.
type ServerFailure struct {
	Status  int
	Message string
}

// DecodeFailure is a 2xx response whose body was not a list of items.
type DecodeFailure struct {
	Status  int
	Message string
}

type TransportKind int

const (
	TransportUnexpected TransportKind = iota
	TransportTimeout
	TransportNetwork
	TransportBadURL
)

func (k TransportKind) String() string {
	switch k {
	case TransportTimeout:
		return "request timed out"
	case TransportNetwork:
		return "network error"
	case TransportBadURL:
		return "bad url"
	default:
		return "unexpected response"
	}
}

// TransportFailure means no response came back from the backend.
type TransportFailure struct {
	Kind TransportKind
}

func (Fetched) outcome()          {}
func (ClientFailure) outcome()    {}
func (ServerFailure) outcome()    {}
func (DecodeFailure) outcome()    {}
func (TransportFailure) outcome() {}

func (f ClientFailure) Reason() string    { return f.Message }
func (f ServerFailure) Reason() string    { return f.Message }
func (f DecodeFailure) Reason() string    { return f.Message }
func (f TransportFailure) Reason() string { return f.Kind.String() }

// Classify maps a backend response onto an Outcome. statusText is the reason
// phrase of the status line and is used verbatim when no better message exists.
func Classify(status int, statusText string, body []byte) Outcome {
	switch {
	case status >= 200 && status < 300:
		items, err := DecodeItems(body)
		if err != nil {
			return DecodeFailure{Status: status, Message: err.Error()}
		}
		return Fetched{Items: items}

	case status >= 400 && status < 500:
		if msg, err := decodeErrorMessage(body); err == nil {
			return ClientFailure{Status: status, Message: msg}
		}
		return ClientFailure{Status: status, Message: statusText}

	default:
		return ServerFailure{Status: status, Message: statusText}
	}
}

var (
	errNotArray  = errors.New("expecting a JSON array of feed items")
	errNotObject = errors.New("expecting an object")
)

// DecodeItems decodes a backend success body. Every item must carry string
// title, link and description fields; pub_date may be missing or null. A single
// bad item fails the whole list.
func DecodeItems(body []byte) ([]FeedItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotArray, err)
	}

	items := make([]FeedItem, 0, len(raws))
	for i, raw := range raws {
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding feed item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(raw json.RawMessage) (FeedItem, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return FeedItem{}, err
	}

	var item FeedItem
	if item.Title, err = requiredString(fields, "title"); err != nil {
		return FeedItem{}, err
	}
	if item.Link, err = requiredString(fields, "link"); err != nil {
		return FeedItem{}, err
	}
	if item.Description, err = requiredString(fields, "description"); err != nil {
		return FeedItem{}, err
	}
	if item.PubDate, err = optionalString(fields, "pub_date"); err != nil {
		return FeedItem{}, err
	}
	return item, nil
}

func decodeErrorMessage(body []byte) (string, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return "", err
	}
	return requiredString(fields, "message")
}

func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotObject, err)
	}
	return fields, nil
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	if isNull(raw) {
		return "", fmt.Errorf("field %q must be a string, got null", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return s, nil
}

func optionalString(fields map[string]json.RawMessage, name string) (Optional[string], error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return None[string](), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return None[string](), fmt.Errorf("field %q must be a string or null", name)
	}
	return Some(s), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
