package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"auth-api/internal/database"
	"auth-api/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL        = 30 * 24 * time.Hour
	DefaultMinPasswordLength = 6
	DefaultCookieName        = "session_token"
)

// Store is the persistence the service needs: single statements plus an
// atomic unit of work.
type Store interface {
	database.Querier
	ExecTx(ctx context.Context, fn func(database.Querier) error) error
}

type Options struct {
	SessionTTL        time.Duration
	MinPasswordLength int
	CookieName        string
	Now               func() time.Time
}

type Service struct {
	store             Store
	sessionTTL        time.Duration
	minPasswordLength int
	cookieName        string
	now               func() time.Time
}

func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:             store,
		sessionTTL:        opts.SessionTTL,
		minPasswordLength: opts.MinPasswordLength,
		cookieName:        opts.CookieName,
		now:               opts.Now,
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = DefaultSessionTTL
	}
	if s.minPasswordLength <= 0 {
		s.minPasswordLength = DefaultMinPasswordLength
	}
	if s.cookieName == "" {
		s.cookieName = DefaultCookieName
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type Credentials struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"secret1"`
}

type UserSummary struct {
	ID    int64  `json:"id" example:"1"`
	Email string `json:"email" example:"user@example.com"`
}

type AuthResult struct {
	SessionToken string
	User         UserSummary
	// Cookie is the credential directive for the transport layer.
	Cookie string
}

type LogoutResult struct {
	Cookie string
}

type Profile struct {
	ID                    int64
	Email                 string
	MessagesToday         int
	MessagesLimit         int
	SubscriptionType      *string
	SubscriptionExpiresAt *time.Time
	// QuotaReset is true when this lookup rolled the daily counter over.
	QuotaReset bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, creds Credentials) (*AuthResult, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, validationError(MsgCredentialsRequired)
	}
	if utf8.RuneCountInString(creds.Password) < s.minPasswordLength {
		return nil, validationError(fmt.Sprintf(MsgPasswordTooShort, s.minPasswordLength))
	}

	var result *AuthResult
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		existing, err := q.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflictError(MsgEmailTaken)
		}

		hash, err := HashPassword(creds.Password)
		if err != nil {
			return err
		}
		user, err := q.CreateUser(ctx, email, hash, s.now())
		if err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				return conflictError(MsgEmailTaken)
			}
			return err
		}

		result, err = s.issueSession(ctx, q, user)
		return err
	})
	if err != nil {
		return nil, AsError(err)
	}
	return result, nil
}

func (s *Service) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, validationError(MsgCredentialsRequired)
	}

	var result *AuthResult
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		user, err := q.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			burnPasswordCheck(creds.Password)
			return authError(MsgInvalidCredentials)
		}
		if !CheckPasswordHash(creds.Password, user.PasswordHash) {
			return authError(MsgInvalidCredentials)
		}

		if IsLegacyHash(user.PasswordHash) {
			hash, err := HashPassword(creds.Password)
			if err != nil {
				return err
			}
			if err := q.UpdateUserPassword(ctx, user.ID, hash); err != nil {
				return err
			}
		}

		result, err = s.issueSession(ctx, q, user)
		return err
	})
	if err != nil {
		return nil, AsError(err)
	}
	return result, nil
}

func (s *Service) issueSession(ctx context.Context, q database.Querier, user *models.User) (*AuthResult, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	err = q.CreateSession(ctx, database.CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    s.now().Add(s.sessionTTL),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		SessionToken: token,
		User:         UserSummary{ID: user.ID, Email: user.Email},
		Cookie:       SetCookieDirective(s.cookieName, token, s.sessionTTL),
	}, nil
}

// Logout expires the session. Unknown or already expired tokens succeed.
func (s *Service) Logout(ctx context.Context, sessionToken string) (*LogoutResult, error) {
	if sessionToken == "" {
		return nil, validationError(MsgTokenRequired)
	}

	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		_, err := q.ExpireSession(ctx, sessionToken, s.now())
		return err
	})
	if err != nil {
		return nil, AsError(err)
	}

	return &LogoutResult{Cookie: ClearCookieDirective(s.cookieName)}, nil
}

// WhoAmI resolves the session owner. When the daily counter was last reset
// on an earlier date it is zeroed and the reset is committed before return.
func (s *Service) WhoAmI(ctx context.Context, sessionToken string) (*Profile, error) {
	if sessionToken == "" {
		return nil, authError(MsgUnauthorized)
	}

	var profile *Profile
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		now := s.now()
		user, err := q.GetUserBySessionToken(ctx, sessionToken, now)
		if err != nil {
			return err
		}
		if user == nil {
			return authError(MsgInvalidSession)
		}

		profile = &Profile{
			ID:                    user.ID,
			Email:                 user.Email,
			MessagesToday:         user.MessagesToday,
			MessagesLimit:         user.MessagesLimit,
			SubscriptionType:      user.SubscriptionType,
			SubscriptionExpiresAt: user.SubscriptionExpiresAt,
		}

		if user.NeedsQuotaReset(now) {
			reset, err := q.ResetDailyQuota(ctx, user.ID, now)
			if err != nil {
				return err
			}
			profile.MessagesToday = 0
			profile.QuotaReset = reset
		}
		return nil
	})
	if err != nil {
		return nil, AsError(err)
	}
	return profile, nil
}

// Authenticate resolves the owner of a live session without side effects.
func (s *Service) Authenticate(ctx context.Context, sessionToken string) (*models.User, error) {
	if sessionToken == "" {
		return nil, authError(MsgUnauthorized)
	}

	user, err := s.store.GetUserBySessionToken(ctx, sessionToken, s.now())
	if err != nil {
		return nil, AsError(err)
	}
	if user == nil {
		return nil, authError(MsgInvalidSession)
	}
	return user, nil
}

// ListSessions returns the user's sessions that have not expired yet.
func (s *Service) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	sessions, err := s.store.ListActiveSessions(ctx, userID, s.now())
	if err != nil {
		return nil, AsError(err)
	}
	return sessions, nil
}
