package models

import (
	"time"
)

// Lead statuses
const (
	LeadStatusNew        = "new"
	LeadStatusInProgress = "in_progress"
	LeadStatusConverted  = "converted"
	LeadStatusLost       = "lost"
)

// LeadStatuses lists all valid statuses in display order
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusInProgress,
	LeadStatusConverted,
	LeadStatusLost,
}

// Lead represents a prospective customer tracked through a status lifecycle.
// IsDeleted is a plain flag rather than gorm.DeletedAt: soft-deleted leads
// must stay reachable by direct lookups and keep counting in the summary
// aggregate, which GORM's native soft delete would hide.
type Lead struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `gorm:"not null" json:"name"`
	Email  string `gorm:"uniqueIndex;not null" json:"email"`
	Phone  string `gorm:"type:varchar(20)" json:"phone"`
	Status string `gorm:"not null;default:new;index" json:"status"`

	AssignedToID *uint `gorm:"index" json:"assigned_to_id,omitempty"`
	IsDeleted    bool  `gorm:"not null;default:false;index" json:"-"`

	// Relationships
	AssignedTo *User      `gorm:"foreignKey:AssignedToID" json:"-"`
	FollowUps  []FollowUp `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsValidLeadStatus reports whether s is one of the four lead statuses
func IsValidLeadStatus(s string) bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// TableName specifies the table name for Lead model
func (Lead) TableName() string {
	return "leads"
}
