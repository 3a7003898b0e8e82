package models

import (
	"time"

	"gorm.io/gorm"
)

// LeadAction represents the type of operation recorded in the audit trail
type LeadAction string

const (
	ActionCreate   LeadAction = "create"
	ActionUpdate   LeadAction = "update"
	ActionDelete   LeadAction = "delete"
	ActionFollowUp LeadAction = "followup"
)

// ActionLog is an immutable audit record of a create/update/delete/follow-up
// event. Rows are append-only: the GORM hooks below refuse updates and deletes.
type ActionLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	UserID  *uint      `gorm:"index" json:"user_id,omitempty"`
	Action  LeadAction `gorm:"not null;index" json:"action"`
	LeadID  *uint      `gorm:"index" json:"lead_id,omitempty"`
	Comment string     `gorm:"type:text" json:"comment"`

	// Relationships (for reading, not for data integrity)
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Lead *Lead `gorm:"foreignKey:LeadID" json:"-"`
}

// BeforeUpdate prevents modification of action logs (immutability)
func (a *ActionLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of action logs (immutability)
func (a *ActionLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// TableName specifies the table name
func (ActionLog) TableName() string {
	return "action_logs"
}
