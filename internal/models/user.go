package models

import "time"

type User struct {
	ID                    int64      `json:"id" db:"id"`
	Email                 string     `json:"email" db:"email"`
	PasswordHash          string     `json:"-" db:"password_hash"`
	MessagesToday         int        `json:"messages_today" db:"messages_today"`
	MessagesLimit         int        `json:"messages_limit" db:"messages_limit"`
	SubscriptionType      *string    `json:"subscription_type" db:"subscription_type"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at" db:"subscription_expires_at"`
	LastResetDate         time.Time  `json:"-" db:"last_reset_date"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// NeedsQuotaReset reports whether the daily counter was last reset on a
// calendar day other than the one today falls on.
func (u *User) NeedsQuotaReset(today time.Time) bool {
	y1, m1, d1 := u.LastResetDate.Date()
	y2, m2, d2 := today.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}
