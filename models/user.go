package models

import (
	"time"
)

// User roles. Staff can read leads, managers can also create and update
// them, admins can additionally soft-delete.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;default:staff" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`
}

// CanCreateLeads reports whether the user may create leads
func (u *User) CanCreateLeads() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// CanUpdateLeads reports whether the user may update leads
func (u *User) CanUpdateLeads() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// CanDeleteLeads reports whether the user may soft-delete leads
func (u *User) CanDeleteLeads() bool {
	return u.Role == RoleAdmin
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
