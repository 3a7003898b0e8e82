package pages

import (
	"lead_crm_go/services"
)

// LeadListViewModel holds the data for the lead list page. PrevURL and
// NextURL carry the filter parameters so paging keeps the search intact.
type LeadListViewModel struct {
	Query   string
	Status  string
	Page    *services.LeadPage
	PrevURL string
	NextURL string
}
