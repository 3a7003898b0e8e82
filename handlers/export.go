package handlers

import (
	"lead_crm_go/db"
	"lead_crm_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ExportLeadsHandler streams the current filtered lead set as an .xlsx
// download. The export bypasses the cache and reads the database directly.
func ExportLeadsHandler(c echo.Context) error {
	filters := services.LeadFilters{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
	}

	file, err := services.ExportLeadsXLSX(db.DB, filters)
	if err != nil {
		c.Logger().Errorf("Failed to export leads: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export leads")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="leads.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := file.Write(c.Response().Writer); err != nil {
		c.Logger().Errorf("Failed to write export: %v", err)
	}
	return nil
}
