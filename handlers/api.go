package handlers

import (
	"lead_crm_go/db"
	"lead_crm_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// leadResponse is the API shape of one lead
type leadResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	LatestComment *string `json:"latest_comment"`
}

// APILeadListHandler returns the full filtered, annotated lead set as
// JSON. Search covers name, email and phone like the list view; no
// pagination parameters are honored here.
func APILeadListHandler(c echo.Context) error {
	filters := services.LeadFilters{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
	}

	leads, err := services.AllLeads(db.DB, filters)
	if err != nil {
		c.Logger().Errorf("Failed to list leads: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list leads")
	}

	response := make([]leadResponse, 0, len(leads))
	for _, lead := range leads {
		response = append(response, leadResponse{
			ID:            lead.ID,
			Name:          lead.Name,
			Email:         lead.Email,
			Phone:         lead.Phone,
			LatestComment: lead.LatestComment,
		})
	}

	return c.JSON(http.StatusOK, response)
}
