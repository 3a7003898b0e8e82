package handlers

import (
	"errors"
	"lead_crm_go/db"
	"lead_crm_go/middleware"
	"lead_crm_go/services"
	"lead_crm_go/templates/pages"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

// LeadListHandler renders the paginated lead list through the cache
func LeadListHandler(c echo.Context) error {
	filters := services.LeadFilters{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
	}
	rawPage := c.QueryParam("page")

	page, err := services.CachedLeadPage(c.Request().Context(), db.DB, AppCache, filters, rawPage)
	if err != nil {
		c.Logger().Errorf("Failed to list leads: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load leads")
	}

	vm := pages.LeadListViewModel{
		Query:   filters.Query,
		Status:  filters.Status,
		Page:    page,
		PrevURL: listPageURL(filters.Query, filters.Status, page.Page-1),
		NextURL: listPageURL(filters.Query, filters.Status, page.Page+1),
	}
	return render(c, pages.LeadList(pageNav(c, "Leads | Lead CRM"), vm))
}

// listPageURL keeps the search parameters on pagination links
func listPageURL(query, status string, page int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("status", status)
	params.Set("page", strconv.Itoa(page))
	return "/list/?" + params.Encode()
}

// LeadCreateHandler renders the create form
func LeadCreateHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.CanCreateLeads() {
		SetFlash(c, FlashError, "You do not have permission to create leads.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	return render(c, pages.LeadCreate(pageNav(c, "New Lead | Lead CRM")))
}

// LeadCreatePostHandler handles the create form submission
func LeadCreatePostHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.CanCreateLeads() {
		SetFlash(c, FlashError, "You do not have permission to create leads.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	input := services.LeadInput{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
		Phone: c.FormValue("phone"),
	}

	if _, err := services.CreateLead(db.DB, input, user.ID); err != nil {
		SetFlash(c, FlashError, capitalize(err.Error())+".")
		return c.Redirect(http.StatusSeeOther, "/create/")
	}

	SetFlash(c, FlashSuccess, "Lead created successfully!")
	return c.Redirect(http.StatusSeeOther, "/list/")
}

// LeadUpdateHandler renders the update form with the follow-up history
func LeadUpdateHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.CanUpdateLeads() {
		SetFlash(c, FlashError, "You do not have permission to update leads.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	id, err := parseLeadID(c)
	if err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	lead, err := services.GetActiveLead(db.DB, id)
	if err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	followUps, err := services.ListFollowUps(db.DB, lead.ID)
	if err != nil {
		c.Logger().Errorf("Failed to list follow-ups for lead %d: %v", lead.ID, err)
	}

	vm := pages.LeadUpdateViewModel{Lead: lead, FollowUps: followUps}
	return render(c, pages.LeadUpdate(pageNav(c, "Edit Lead | Lead CRM"), vm))
}

/// LeadUpdatePostHandler handles the update form submission: field changes,
// an optional follow-up comment, or both in one request
func LeadUpdatePostHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.CanUpdateLeads() {
		SetFlash(c, FlashError, "You do not have permission to update leads.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	id, err := parseLeadID(c)
	if err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	input := services.LeadInput{
		Name:   c.FormValue("name"),
		Email:  c.FormValue("email"),
		Phone:  c.FormValue("phone"),
		Status: c.FormValue("status"),
	}
	comment := c.FormValue("comment")

	_, err = services.UpdateLead(db.DB, id, input, comment, user.ID)
	switch {
	case err == nil:
		SetFlash(c, FlashSuccess, "Lead updated successfully!")
		return c.Redirect(http.StatusSeeOther, "/list/")
	case errors.Is(err, services.ErrNoChanges):
		SetFlash(c, FlashInfo, "No changes made.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	case errors.Is(err, services.ErrLeadNotFound):
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	default:
		SetFlash(c, FlashError, capitalize(err.Error())+".")
		return c.Redirect(http.StatusSeeOther, "/"+strconv.FormatUint(uint64(id), 10)+"/update/")
	}
}

// LeadDeleteHandler renders the delete confirmation page. The lookup is
// not filtered on the deleted flag, matching the delete path's behavior.
func LeadDeleteHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.CanDeleteLeads() {
		SetFlash(c, FlashError, "You do not have permission to delete leads.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	id, err := parseLeadID(c)
	if err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	lead, err := services.GetLead(db.DB, id)
	if err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	return render(c, pages.LeadDelete(pageNav(c, "Delete Lead | Lead CRM"), lead))
}

// LeadDeletePostHandler soft-deletes the lead
func LeadDeletePostHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if !user.CanDeleteLeads() {
		SetFlash(c, FlashError, "You do not have permission to delete leads.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	id, err := parseLeadID(c)
	if err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	if _, err := services.SoftDeleteLead(db.DB, id, user.ID); err != nil {
		SetFlash(c, FlashError, "Lead does not exist.")
		return c.Redirect(http.StatusSeeOther, "/list/")
	}

	SetFlash(c, FlashSuccess, "Lead deleted successfully!")
	return c.Redirect(http.StatusSeeOther, "/list/")
}

func parseLeadID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
