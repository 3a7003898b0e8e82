package pages

import (
	"lead_crm_go/services"
)

// DashboardViewModel holds the data for the dashboard page
type DashboardViewModel struct {
	Query       string
	Status      string
	RecentLeads []services.AnnotatedLead
	Counts      *services.LeadCounts
}
