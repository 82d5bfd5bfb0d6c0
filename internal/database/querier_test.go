package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"auth-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, email string) *models.User {
	user, err := testStore.CreateUser(context.Background(), email, "hash", time.Now())
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func createTestSession(t *testing.T, userID int64, token string, expiresAt time.Time) {
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:           uuid.New(),
		UserID:       userID,
		SessionToken: token,
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)
}

func TestCreateUser(t *testing.T) {
	user := createTestUser(t, "create@example.com")

	require.NotZero(t, user.ID)
	require.Equal(t, "create@example.com", user.Email)
	require.Equal(t, 0, user.MessagesToday)
	require.Equal(t, 10, user.MessagesLimit)
	require.NotNil(t, user.SubscriptionType)
	require.Equal(t, "free", *user.SubscriptionType)
	require.Nil(t, user.SubscriptionExpiresAt)

	_, err := testStore.CreateUser(context.Background(), "create@example.com", "other", time.Now())
	require.ErrorIs(t, err, ErrEmailTaken)

	var count int
	err = testStore.pool.QueryRow(context.Background(), `SELECT count(*) FROM users WHERE email = $1`, "create@example.com").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCreateUser_LastResetDateFromCaller(t *testing.T) {
	today := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.Local)

	user, err := testStore.CreateUser(context.Background(), "resetdate@example.com", "hash", today)
	require.NoError(t, err)
	require.NotNil(t, user)

	y, m, d := user.LastResetDate.Date()
	require.Equal(t, 2024, y)
	require.Equal(t, time.March, m)
	require.Equal(t, 9, d)
	require.False(t, user.NeedsQuotaReset(today))
}

func TestGetUserByEmailAndID(t *testing.T) {
	created := createTestUser(t, "lookup@example.com")

	byEmail, err := testStore.GetUserByEmail(context.Background(), "lookup@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, created.ID, byEmail.ID)
	require.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := testStore.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "lookup@example.com", byID.Email)

	missing, err := testStore.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)

	missing, err = testStore.GetUserByID(context.Background(), -1)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateUserPassword(t *testing.T) {
	user := createTestUser(t, "rehash@example.com")

	err := testStore.UpdateUserPassword(context.Background(), user.ID, "new-hash")
	require.NoError(t, err)

	updated, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", updated.PasswordHash)
}

func TestGetUserBySessionToken(t *testing.T) {
	user := createTestUser(t, "session@example.com")
	now := time.Now()
	createTestSession(t, user.ID, "active-token", now.Add(time.Hour))
	createTestSession(t, user.ID, "expired-token", now.Add(-time.Hour))

	found, err := testStore.GetUserBySessionToken(context.Background(), "active-token", now)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, user.ID, found.ID)

	found, err = testStore.GetUserBySessionToken(context.Background(), "expired-token", now)
	require.NoError(t, err)
	require.Nil(t, found)

	found, err = testStore.GetUserBySessionToken(context.Background(), "unknown-token", now)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestExpireSession(t *testing.T) {
	user := createTestUser(t, "expire@example.com")
	now := time.Now()
	createTestSession(t, user.ID, "to-expire", now.Add(time.Hour))

	matched, err := testStore.ExpireSession(context.Background(), "to-expire", now)
	require.NoError(t, err)
	require.True(t, matched)

	found, err := testStore.GetUserBySessionToken(context.Background(), "to-expire", now)
	require.NoError(t, err)
	require.Nil(t, found)

	matched, err = testStore.ExpireSession(context.Background(), "to-expire", now.Add(time.Second))
	require.NoError(t, err)
	require.False(t, matched, "an already expired session is left alone")

	matched, err = testStore.ExpireSession(context.Background(), "never-existed", now)
	require.NoError(t, err)
	require.False(t, matched)
}

func TestResetDailyQuota(t *testing.T) {
	user := createTestUser(t, "quota@example.com")
	_, err := testStore.pool.Exec(context.Background(),
		`UPDATE users SET messages_today = 7, last_reset_date = '2024-01-01' WHERE id = $1`, user.ID)
	require.NoError(t, err)

	today := time.Date(2024, 1, 2, 15, 30, 0, 0, time.Local)

	reset, err := testStore.ResetDailyQuota(context.Background(), user.ID, today)
	require.NoError(t, err)
	require.True(t, reset)

	updated, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, updated.MessagesToday)
	require.False(t, updated.NeedsQuotaReset(today))

	reset, err = testStore.ResetDailyQuota(context.Background(), user.ID, today.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, reset, "second reset on the same day must be a no-op")
}

func TestListActiveSessions(t *testing.T) {
	user := createTestUser(t, "list@example.com")
	now := time.Now()
	createTestSession(t, user.ID, "list-a", now.Add(time.Hour))
	createTestSession(t, user.ID, "list-b", now.Add(2*time.Hour))
	createTestSession(t, user.ID, "list-old", now.Add(-time.Hour))

	sessions, err := testStore.ListActiveSessions(context.Background(), user.ID, now)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		require.Equal(t, user.ID, s.UserID)
		require.True(t, s.Valid(now))
	}

	other := createTestUser(t, "list-empty@example.com")
	sessions, err = testStore.ListActiveSessions(context.Background(), other.ID, now)
	require.NoError(t, err)
	require.NotNil(t, sessions)
	require.Empty(t, sessions)
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	errBoom := errors.New("boom")

	err := testStore.ExecTx(context.Background(), func(q Querier) error {
		if _, err := q.CreateUser(context.Background(), "rollback@example.com", "hash", time.Now()); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	user, err := testStore.GetUserByEmail(context.Background(), "rollback@example.com")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestExecTx_Commits(t *testing.T) {
	var userID int64
	err := testStore.ExecTx(context.Background(), func(q Querier) error {
		user, err := q.CreateUser(context.Background(), "commit@example.com", "hash", time.Now())
		if err != nil {
			return err
		}
		userID = user.ID
		return q.CreateSession(context.Background(), CreateSessionParams{
			ID:           uuid.New(),
			UserID:       user.ID,
			SessionToken: "commit-token",
			ExpiresAt:    time.Now().Add(time.Hour),
		})
	})
	require.NoError(t, err)

	found, err := testStore.GetUserBySessionToken(context.Background(), "commit-token", time.Now())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, userID, found.ID)
}
