package api

import (
	"net/http"
	"time"
)

type UserResponse struct {
	ID                    int64   `json:"id" example:"1"`
	Email                 string  `json:"email" example:"user@example.com"`
	MessagesToday         int     `json:"messages_today" example:"0"`
	MessagesLimit         int     `json:"messages_limit" example:"10"`
	SubscriptionType      *string `json:"subscription_type" example:"free"`
	SubscriptionExpiresAt *string `json:"subscription_expires_at" example:"2025-01-31T00:00:00Z"`
}

// @Summary      Get current user info
// @Description  Resolves the session to its user. The daily message counter is reset first when it was last reset on an earlier date.
// @Tags         users
// @Produce      json
// @Param        X-Session-Token  header    string  true  "Session token"
// @Success      200              {object}  UserResponse
// @Failure      401              {object}  ErrorResponse "Missing, invalid or expired session"
// @Failure      500              {object}  ErrorResponse
// @Router       /auth/me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := s.auth.WhoAmI(r.Context(), sessionToken(r))
	if err != nil {
		s.writeError(w, r, "me", err)
		return
	}

	authOperations.WithLabelValues("me", "success").Inc()
	if profile.QuotaReset {
		quotaResets.Inc()
	}

	resp := UserResponse{
		ID:               profile.ID,
		Email:            profile.Email,
		MessagesToday:    profile.MessagesToday,
		MessagesLimit:    profile.MessagesLimit,
		SubscriptionType: profile.SubscriptionType,
	}
	if profile.SubscriptionExpiresAt != nil {
		ts := profile.SubscriptionExpiresAt.Format(time.RFC3339)
		resp.SubscriptionExpiresAt = &ts
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}
