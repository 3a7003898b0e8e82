package pages

import (
	"lead_crm_go/models"
)

// LeadUpdateViewModel holds the data for the edit page: the lead itself
// plus its follow-up history, newest first
type LeadUpdateViewModel struct {
	Lead      *models.Lead
	FollowUps []models.FollowUp
}
