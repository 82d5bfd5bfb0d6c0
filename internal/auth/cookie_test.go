package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetCookieDirective(t *testing.T) {
	got := SetCookieDirective("session_token", "abc-123_XYZ", DefaultSessionTTL)
	require.Equal(t, "session_token=abc-123_XYZ; Path=/; Max-Age=2592000; SameSite=Lax", got)
}

func TestClearCookieDirective(t *testing.T) {
	got := ClearCookieDirective("session_token")
	require.Equal(t, "session_token=; Path=/; Max-Age=0", got)
}
