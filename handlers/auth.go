package handlers

import (
	"lead_crm_go/db"
	"lead_crm_go/middleware"
	"lead_crm_go/models"
	"lead_crm_go/services"
	"lead_crm_go/templates/pages"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Package level variable to hold the dummy hash for timing mitigation
var globalDummyHash string

func init() {
	// Generate a real dummy hash at startup to ensure consistent timing
	// on login attempts against unknown usernames
	hash, _ := services.HashPassword("dummy_password_for_timing_mitigation")
	globalDummyHash = hash
}

// LoginHandler renders the login page. Registration redirects here with
// the username prefilled.
func LoginHandler(c echo.Context) error {
	return render(c, pages.Login(pageNav(c, "Sign in | Lead CRM"), c.QueryParam("username")))
}

// LoginPostHandler handles the login form submission
func LoginPostHandler(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	if username == "" || password == "" {
		SetFlash(c, FlashError, "Username and password are required.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	var user models.User
	err := db.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		// Timing attack mitigation: always run a bcrypt comparison
		services.VerifyPassword(globalDummyHash, password)
		SetFlash(c, FlashError, "Invalid username or password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if !services.VerifyPassword(user.Password, password) {
		SetFlash(c, FlashError, "Invalid username or password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if !user.IsActive {
		SetFlash(c, FlashError, "This account is inactive.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		c.Logger().Errorf("Failed to create session for %s: %v", username, err)
		SetFlash(c, FlashError, "Sign in failed. Please try again.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := db.DB.Save(&user).Error; err != nil {
		c.Logger().Errorf("Failed to record last login for %s: %v", username, err)
	}

	middleware.SetSessionCookie(c, session.Token, int(services.DefaultSessionDuration.Seconds()))
	return c.Redirect(http.StatusSeeOther, "/")
}

// LogoutHandler deletes the session and clears the cookie
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			c.Logger().Errorf("Failed to delete session: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// RegisterHandler renders the registration page
func RegisterHandler(c echo.Context) error {
	return render(c, pages.Register(pageNav(c, "Register | Lead CRM")))
}

// RegisterPostHandler creates a staff account
func RegisterPostHandler(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := strings.TrimSpace(c.FormValue("password"))
	confirmPassword := strings.TrimSpace(c.FormValue("confirm_password"))

	if username == "" {
		SetFlash(c, FlashError, "Username is required.")
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	if _, err := services.RegisterUser(db.DB, username, password, confirmPassword); err != nil {
		SetFlash(c, FlashError, capitalize(err.Error())+".")
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	SetFlash(c, FlashSuccess, "Staff account created successfully!")
	// Redirect to login with username pre-filled
	return c.Redirect(http.StatusSeeOther, "/login?username="+url.QueryEscape(username))
}

// capitalize upper-cases the first byte of an ASCII message for display
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
