package unit

import (
	"testing"
	"time"

	"secondhand_market/internal/user/domain"
	"secondhand_market/pkg/encrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordMatch(t *testing.T) {
	hashed, err := encrypt.HashPassword("!Password123")
	require.NoError(t, err)

	user := domain.User{
		ID:       1,
		Email:    "user@example.com",
		Password: hashed,
	}

	assert.True(t, user.IsPasswordMatch("!Password123") == nil, "should match correct password")
	assert.False(t, user.IsPasswordMatch("wrongpass") == nil, "should not match incorrect password")
}

func TestUserSessionExpiration(t *testing.T) {
	session := domain.UserSession{
		RefreshToken: "abcd1234",
		UserID:       1,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		ExpiredAt:    time.Now().Add(-1 * time.Minute), // 已經過期
	}

	assert.True(t, session.IsExpired(), "session should be expired")
}

func TestPasswordStrength(t *testing.T) {
	assert.NoError(t, encrypt.ValidatePasswordStrength("!Password123"))
	assert.Error(t, encrypt.ValidatePasswordStrength("short1!"), "too short")
	assert.Error(t, encrypt.ValidatePasswordStrength("!password123"), "no uppercase")
	assert.Error(t, encrypt.ValidatePasswordStrength("Password123"), "no special character")
}
