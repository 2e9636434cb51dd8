package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// dispatch resolves the first path segment to a registered preprocessor and
// hands it the rest of the path as input text. A miss is a plain 404; a
// preprocessor error fails only this request.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "plugin")
	fn, ok := s.handle.LookupPreprocessor(name)
	if !ok {
		s.logger.Debug("No preprocessor for route.", "route", name)
		http.Error(w, fmt.Sprintf("no plugin registered under %q", name), http.StatusNotFound)
		return
	}

	rest := chi.URLParam(r, "*")
	input, err := url.PathUnescape(rest)
	if err != nil {
		http.Error(w, "malformed path", http.StatusBadRequest)
		return
	}

	output, err := fn(input)
	if err != nil {
		s.logger.Warn("Preprocessor failed.", "route", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, output)
}
