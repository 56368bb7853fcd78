package feedsrv

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pders01/rssview/internal/debuglog"
)

// apiError is an error with the HTTP status it should be reported with. It
// serializes to the {"message": ...} body clients decode on 4xx.
type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func newAPIError(status int, format string, args ...any) *apiError {
	return &apiError{Status: status, Message: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("error encoding json response: %w", err)
	}
	return nil
}

// handlerFuncE is an http.HandlerFunc that returns an error.
type handlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f handlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	apiErr := &apiError{}
	if !errors.As(err, &apiErr) {
		debuglog.Errorf("unhandled error serving %s: %v", r.URL.Path, err)
		apiErr = newAPIError(http.StatusInternalServerError, "internal server error")
	}

	if err := writeJSON(w, apiErr.Status, apiErr); err != nil {
		debuglog.Errorf("error writing response: %v", err)
	}
}
