package api

import (
	"net/http"

	"auth-api/internal/auth"
)

// @Summary      List active sessions
// @Description  Lists every unexpired session of the user owning X-Session-Token, newest first.
// @Tags         sessions
// @Produce      json
// @Param        X-Session-Token  header    string  true  "Session token"
// @Success      200              {array}   models.Session
// @Failure      401              {object}  ErrorResponse "Missing, invalid or expired session"
// @Failure      500              {object}  ErrorResponse
// @Router       /auth/sessions [get]
func (s *Server) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		s.writeError(w, r, "sessions", auth.UnauthorizedError())
		return
	}

	sessions, err := s.auth.ListSessions(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, "sessions", err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, sessions)
}
