package services

import (
	"lead_crm_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestRegisterUser(t *testing.T) {
	db := setupLeadTestDB(t)

	_, err := RegisterUser(db, "staffer", "pass1", "pass2")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = RegisterUser(db, "staffer", "pass", "pass")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	user, err := RegisterUser(db, "staffer", "pass1", "pass1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, VerifyPassword(user.Password, "pass1"))

	_, err = RegisterUser(db, "staffer", "pass1", "pass1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSessionLifecycle(t *testing.T) {
	db := setupLeadTestDB(t)

	user, err := RegisterUser(db, "staffer", "pass1", "pass1")
	require.NoError(t, err)

	session, err := CreateSession(db, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	validated, err := ValidateSession(db, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.UserID)
	assert.Equal(t, "staffer", validated.User.Username)

	require.NoError(t, DeleteSession(db, session.Token))
	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)
}

func TestValidateSessionExpired(t *testing.T) {
	db := setupLeadTestDB(t)

	user, err := RegisterUser(db, "staffer", "pass1", "pass1")
	require.NoError(t, err)

	session, err := CreateSession(db, user.ID, "", "")
	require.NoError(t, err)

	// Force expiry
	require.NoError(t, db.Model(&models.Session{}).
		Where("token = ?", session.Token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = ValidateSession(db, session.Token)
	assert.Error(t, err)

	// Expired sessions are deleted on validation
	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupLeadTestDB(t)

	user, err := RegisterUser(db, "staffer", "pass1", "pass1")
	require.NoError(t, err)

	fresh, err := CreateSession(db, user.ID, "", "")
	require.NoError(t, err)
	stale, err := CreateSession(db, user.ID, "", "")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Session{}).
		Where("token = ?", stale.Token).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	require.NoError(t, CleanupExpiredSessions(db))

	var tokens []string
	require.NoError(t, db.Model(&models.Session{}).Pluck("token", &tokens).Error)
	assert.Equal(t, []string{fresh.Token}, tokens)
}
