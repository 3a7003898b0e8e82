package handlers

import (
	"lead_crm_go/cache"
	"lead_crm_go/middleware"
	"lead_crm_go/templates/partials"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// AppCache is the read-model cache, set once at startup (and by test setup)
var AppCache cache.Cache

func render(c echo.Context, component templ.Component) error {
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// pageNav assembles the layout data every page expects
func pageNav(c echo.Context, title string) partials.Nav {
	nav := partials.Nav{
		Title: title,
		User:  middleware.GetCurrentUser(c),
	}
	if flash := PopFlash(c); flash != nil {
		nav.Flash = &partials.FlashMessage{Level: flash.Level, Message: flash.Message}
	}
	return nav
}
