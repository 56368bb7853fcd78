// Package feedsrv is the reference feed backend: GET /feed?url=... fetches the
// named feed and answers with its items as JSON.
package feedsrv

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/pders01/rssview/internal/config"
	"github.com/pders01/rssview/internal/debuglog"
	"github.com/pders01/rssview/internal/validation"
)

type Server struct {
	*http.Server

	fetcher   *Fetcher
	parser    *Parser
	validator *validation.FeedURLValidator
}

// errRouter lets handlers return errors.
type errRouter struct {
	*mux.Router
}

func (r errRouter) HandleFuncE(path string, f handlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

func NewServer(cfg *config.Config) *Server {
	r := errRouter{Router: mux.NewRouter()}

	srv := &Server{
		fetcher:   NewFetcher(cfg),
		parser:    NewParser(),
		validator: newFeedURLValidator(cfg),
	}
	srv.Server = &http.Server{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: 5 * time.Second,
		Handler: accessLogMiddleware(handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"content-type"}),
		)(r)),
	}

	r.HandleFuncE("/feed", srv.getFeed).Methods(http.MethodGet)

	return srv
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) error {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		return newAPIError(http.StatusBadRequest, "missing url query parameter")
	}

	feedURL, err := s.validator.ValidateAndNormalize(raw)
	if err != nil {
		return newAPIError(http.StatusBadRequest, "%s", err.Error())
	}

	log := debuglog.WithFields(map[string]interface{}{"feed": feedURL})

	resp, err := s.fetcher.Fetch(r.Context(), feedURL)
	if err != nil {
		if IsBlocked(err) {
			log.Warnf("refused upstream target: %v", err)
			return newAPIError(http.StatusBadRequest, "feed URL resolves to a blocked address")
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			log.Infof("upstream answered %s", statusErr.Status)
			return newAPIError(statusErr.StatusCode, "upstream responded %s", statusErr.Status)
		}
		log.Warnf("upstream request failed: %v", err)
		return newAPIError(http.StatusBadGateway, "could not reach feed")
	}
	defer resp.Body.Close()

	items, err := s.parser.Parse(resp.Body)
	if err != nil {
		log.Warnf("%v", err)
		return newAPIError(http.StatusInternalServerError, "could not parse feed")
	}

	log.Debugf("serving %d items", len(items))
	return writeJSON(w, http.StatusOK, items)
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		writer := &respCodeWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(writer, r)

		debuglog.WithFields(map[string]interface{}{
			"method":   r.Method,
			"url":      r.URL.String(),
			"duration": time.Since(start).String(),
			"status":   writer.code,
		}).Infof("request completed")
	})
}

// To trap the response status code for logging later.
type respCodeWriter struct {
	http.ResponseWriter
	code int
}

func (w *respCodeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
