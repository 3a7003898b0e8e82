package handlers

import (
	"lead_crm_go/db"
	"lead_crm_go/services"
	"lead_crm_go/templates/pages"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DashboardHandler renders the dashboard: summary counts plus the four
// most recent leads, both served through the 30-second cache. The search
// box here matches lead names only; the list view searches more widely.
func DashboardHandler(c echo.Context) error {
	ctx := c.Request().Context()

	filters := services.LeadFilters{
		Query:    c.QueryParam("q"),
		Status:   c.QueryParam("status"),
		NameOnly: true,
	}

	recent, err := services.CachedRecentLeads(ctx, db.DB, AppCache, filters)
	if err != nil {
		c.Logger().Errorf("Failed to fetch recent leads: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard")
	}

	counts, err := services.CachedSummaryCounts(ctx, db.DB, AppCache)
	if err != nil {
		c.Logger().Errorf("Failed to fetch lead counts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard")
	}

	vm := pages.DashboardViewModel{
		Query:       filters.Query,
		Status:      filters.Status,
		RecentLeads: recent,
		Counts:      counts,
	}
	return render(c, pages.Dashboard(pageNav(c, "Dashboard | Lead CRM"), vm))
}
