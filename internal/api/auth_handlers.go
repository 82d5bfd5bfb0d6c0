package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"auth-api/internal/auth"
)

type AuthResponse struct {
	Success      bool             `json:"success" example:"true"`
	SessionToken string           `json:"session_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78qabc"`
	User         auth.UserSummary `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

func decodeCredentials(r *http.Request) (auth.Credentials, error) {
	var req auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, auth.InvalidBodyError()
	}
	return req, nil
}

func (s *Server) writeAuthResult(w http.ResponseWriter, r *http.Request, operation string, res *auth.AuthResult) {
	authOperations.WithLabelValues(operation, "success").Inc()
	w.Header().Set(setCookieHeader, res.Cookie)
	s.writeJSON(w, r, http.StatusOK, AuthResponse{
		Success:      true,
		SessionToken: res.SessionToken,
		User:         res.User,
	})
}

// @Summary      Registers a new user
// @Description  Creates an account and opens its first session. The X-Set-Cookie header carries the credential directive.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      auth.Credentials  true  "Email and password"
// @Success      200          {object}  AuthResponse
// @Failure      400          {object}  ErrorResponse "Missing fields, short password or email already registered"
// @Failure      500          {object}  ErrorResponse
// @Router       /auth/register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		s.writeError(w, r, "register", err)
		return
	}

	res, err := s.auth.Register(r.Context(), creds)
	if err != nil {
		s.writeError(w, r, "register", err)
		return
	}

	s.writeAuthResult(w, r, "register", res)
}

// @Summary      Logs a user in
// @Description  Verifies the credentials and opens a new session. Earlier sessions stay valid.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      auth.Credentials  true  "Email and password"
// @Success      200          {object}  AuthResponse
// @Failure      400          {object}  ErrorResponse "Missing fields"
// @Failure      401          {object}  ErrorResponse "Invalid email or password"
// @Failure      500          {object}  ErrorResponse
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(r)
	if err != nil {
		s.writeError(w, r, "login", err)
		return
	}

	res, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		s.writeError(w, r, "login", err)
		return
	}

	s.writeAuthResult(w, r, "login", res)
}

// @Summary      Logs a session out
// @Description  Expires the session named by X-Session-Token. Unknown or expired tokens succeed as well.
// @Tags         auth
// @Produce      json
// @Param        X-Session-Token  header    string  true  "Session token"
// @Success      200              {object}  SuccessResponse
// @Failure      400              {object}  ErrorResponse "Session token required"
// @Failure      500              {object}  ErrorResponse
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.auth.Logout(r.Context(), sessionToken(r))
	if err != nil {
		s.writeError(w, r, "logout", err)
		return
	}

	authOperations.WithLabelValues("logout", "success").Inc()
	w.Header().Set(setCookieHeader, res.Cookie)
	s.writeJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// PreflightHandler answers cross-origin negotiation for any path.
func (s *Server) PreflightHandler(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-Session-Token")
	h.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	e := auth.NotFoundError(auth.MsgNotFound)
	s.writeJSON(w, r, e.StatusCode(), ErrorResponse{Error: e.Message})
}
