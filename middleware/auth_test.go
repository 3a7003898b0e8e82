package middleware

import (
	"lead_crm_go/db"
	"lead_crm_go/models"
	"lead_crm_go/services"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Session{}))
	db.DB = testDB
	return testDB
}

func newAuthContext(t *testing.T, cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAuthRedirectsWithoutCookie(t *testing.T) {
	setupAuthTestDB(t)
	c, rec := newAuthContext(t, nil)

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatal("handler should not run without a session")
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuthRedirectsOnInvalidToken(t *testing.T) {
	setupAuthTestDB(t)
	c, rec := newAuthContext(t, &http.Cookie{Name: SessionCookieName, Value: "no-such-token"})

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatal("handler should not run with an invalid session")
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuthPassesUserToContext(t *testing.T) {
	testDB := setupAuthTestDB(t)

	user := models.User{Username: "bob", Password: "hash", Role: models.RoleManager, IsActive: true}
	require.NoError(t, testDB.Create(&user).Error)
	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	c, rec := newAuthContext(t, &http.Cookie{Name: SessionCookieName, Value: session.Token})

	var seen *models.User
	handler := RequireAuth()(func(c echo.Context) error {
		seen = GetCurrentUser(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "bob", seen.Username)
	assert.True(t, seen.CanUpdateLeads())
}

func TestRequireAuthRejectsInactiveUser(t *testing.T) {
	testDB := setupAuthTestDB(t)

	user := models.User{Username: "bob", Password: "hash", Role: models.RoleStaff, IsActive: true}
	require.NoError(t, testDB.Create(&user).Error)
	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NoError(t, testDB.Model(&user).Update("is_active", false).Error)

	c, rec := newAuthContext(t, &http.Cookie{Name: SessionCookieName, Value: session.Token})

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatal("handler should not run for an inactive user")
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuthRejectsExpiredSession(t *testing.T) {
	testDB := setupAuthTestDB(t)

	user := models.User{Username: "bob", Password: "hash", Role: models.RoleStaff, IsActive: true}
	require.NoError(t, testDB.Create(&user).Error)
	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, testDB.Create(&session).Error)

	c, rec := newAuthContext(t, &http.Cookie{Name: SessionCookieName, Value: "expired-token"})

	handler := RequireAuth()(func(c echo.Context) error {
		t.Fatal("handler should not run with an expired session")
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// ValidateSession removes expired rows
	var count int64
	testDB.Model(&models.Session{}).Where("token = ?", "expired-token").Count(&count)
	assert.Equal(t, int64(0), count)
}
