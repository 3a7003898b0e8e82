package handlers

import (
	"io"
	"lead_crm_go/cache"
	"lead_crm_go/config"
	"lead_crm_go/db"
	"lead_crm_go/middleware"
	"lead_crm_go/models"
	"lead_crm_go/services"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared-memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Lead{},
		&models.FollowUp{},
		&models.ActionLog{},
	)
	require.NoError(t, err)

	// Set globals the handlers read
	db.DB = testDB
	AppCache = cache.NewInMemory()

	return testDB
}

func setupEcho(t *testing.T, method, path string, form url.Values) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{Environment: "test"})

	return e, c, rec
}

func createTestUser(t *testing.T, testDB *gorm.DB, username, role string) *models.User {
	hashed, err := services.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

// asUser stores the user in context the way RequireAuth would
func asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}
