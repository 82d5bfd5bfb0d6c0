package api

import (
	"encoding/json"
	"net/http"

	"auth-api/internal/auth"
)

const (
	sessionTokenHeader = "X-Session-Token"
	setCookieHeader    = "X-Set-Cookie"
)

type ErrorResponse struct {
	Error string `json:"error" example:"Invalid email or password"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn(r.Context(), "failed to encode response", "err", err)
	}
}

// writeError maps err onto its status code. Unexpected failures are logged
// and, when configured, their raw text is returned to the caller.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	e := auth.AsError(err)
	authOperations.WithLabelValues(operation, e.Kind.String()).Inc()

	msg := e.Error()
	if e.Kind == auth.KindUnexpected {
		s.log.Error(r.Context(), "request failed", "operation", operation, "err", err)
		if !s.config.Server.ExposeErrors {
			msg = "Internal server error"
		}
	}
	s.writeJSON(w, r, e.StatusCode(), ErrorResponse{Error: msg})
}

// sessionToken reads the session header. Header lookup is canonicalized,
// so any casing of the name matches.
func sessionToken(r *http.Request) string {
	return r.Header.Get(sessionTokenHeader)
}
