package partials

import (
	"lead_crm_go/models"
)

// Nav holds the data every page header needs
type Nav struct {
	Title string
	User  *models.User
	Flash *FlashMessage
}

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Level   string
	Message string
}
