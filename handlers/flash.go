package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// FlashCookieName carries one-shot messages across a redirect
const FlashCookieName = "lead_crm_flash"

// Flash levels
const (
	FlashError   = "error"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Level   string
	Message string
}

// SetFlash queues a message for the next page render
func SetFlash(c echo.Context, level, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(level + "|" + message))
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// PopFlash reads and clears the queued message, if any
func PopFlash(c echo.Context) *Flash {
	cookie, err := c.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// Clear the cookie regardless of whether decoding succeeds
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil
	}
	return &Flash{Level: parts[0], Message: parts[1]}
}
