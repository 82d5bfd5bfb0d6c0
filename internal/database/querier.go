package database

import (
	"context"
	"errors"
	"time"

	"auth-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrEmailTaken = errors.New("email is already registered")

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Querier is the set of statements the auth service issues, either directly
// against the pool or inside ExecTx.
type Querier interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, email, passwordHash string, today time.Time) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error
	CreateSession(ctx context.Context, arg CreateSessionParams) error
	GetUserBySessionToken(ctx context.Context, sessionToken string, now time.Time) (*models.User, error)
	ExpireSession(ctx context.Context, sessionToken string, now time.Time) (bool, error)
	ResetDailyQuota(ctx context.Context, userID int64, today time.Time) (bool, error)
	ListActiveSessions(ctx context.Context, userID int64, now time.Time) ([]models.Session, error)
}

var _ Querier = (*Queries)(nil)

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const userColumns = `
	id, email, password_hash, messages_today, messages_limit,
	subscription_type, subscription_expires_at, last_reset_date, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.MessagesToday,
		&user.MessagesLimit,
		&user.SubscriptionType,
		&user.SubscriptionExpiresAt,
		&user.LastResetDate,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.db.QueryRow(ctx, query, email))
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

// CreateUser inserts a user whose quota was last reset on today's date as
// seen by the caller's clock, not the database's.
func (q *Queries) CreateUser(ctx context.Context, email, passwordHash string, today time.Time) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, last_reset_date)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	user, err := scanUser(q.db.QueryRow(ctx, query, email, passwordHash, calendarDate(today)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, newPasswordHash, userID)
	return err
}

type CreateSessionParams struct {
	ID           uuid.UUID
	UserID       int64
	SessionToken string
	ExpiresAt    time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO user_sessions (id, user_id, session_token, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.SessionToken, arg.ExpiresAt)
	return err
}

func (q *Queries) GetUserBySessionToken(ctx context.Context, sessionToken string, now time.Time) (*models.User, error) {
	query := `
		SELECT
			u.id, u.email, u.password_hash, u.messages_today, u.messages_limit,
			u.subscription_type, u.subscription_expires_at, u.last_reset_date, u.created_at
		FROM users u
		JOIN user_sessions s ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > $2
	`
	return scanUser(q.db.QueryRow(ctx, query, sessionToken, now))
}

// ExpireSession moves the session's expiry to now. It reports whether a
// session with that token existed; a missing token is not an error.
func (q *Queries) ExpireSession(ctx context.Context, sessionToken string, now time.Time) (bool, error) {
	query := `UPDATE user_sessions SET expires_at = $2 WHERE session_token = $1 AND expires_at > $2`
	res, err := q.db.Exec(ctx, query, sessionToken, now)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// ResetDailyQuota zeroes messages_today unless the counter was already reset
// on today's date. It reports whether a reset happened.
func (q *Queries) ResetDailyQuota(ctx context.Context, userID int64, today time.Time) (bool, error) {
	date := calendarDate(today)

	query := `
		UPDATE users
		SET messages_today = 0, last_reset_date = $2
		WHERE id = $1 AND last_reset_date IS DISTINCT FROM $2
	`
	res, err := q.db.Exec(ctx, query, userID, date)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// calendarDate keeps t's local y/m/d so a DATE column stores the caller's day.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (q *Queries) ListActiveSessions(ctx context.Context, userID int64, now time.Time) ([]models.Session, error) {
	query := `
		SELECT id, user_id, session_token, expires_at, created_at
		FROM user_sessions
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.SessionToken,
			&session.ExpiresAt,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		return []models.Session{}, nil
	}

	return sessions, nil
}
