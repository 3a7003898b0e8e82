package models

import (
	"time"
)

// FollowUp is a timestamped free-text note attached to a lead.
// Reads are newest-first; rows are removed only when their lead is
// physically deleted (which the application never does itself).
type FollowUp struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	LeadID  uint   `gorm:"not null;index" json:"lead_id"`
	UserID  *uint  `gorm:"index" json:"user_id,omitempty"`
	Comment string `gorm:"type:text;not null" json:"comment"`

	// Relationships
	Lead Lead  `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for FollowUp model
func (FollowUp) TableName() string {
	return "follow_ups"
}
