package services

import (
	"errors"
	"fmt"
	"lead_crm_go/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Lead-related errors. These double as the user-facing messages the
// handlers flash on redirect.
var (
	ErrLeadNotFound   = errors.New("lead does not exist")
	ErrFieldsRequired = errors.New("all fields are required")
	ErrPhoneDigits    = errors.New("phone number must contain digits only")
	ErrPhoneLength    = errors.New("phone number must be 10 digits long")
	ErrEmailTaken     = errors.New("a lead with this email already exists")
	ErrInvalidStatus  = errors.New("select a valid status")
	ErrNoChanges      = errors.New("no changes made")
)

const (
	// LeadPageSize is the fixed page size of the list view
	LeadPageSize = 5
	// DashboardRecentLimit is how many leads the dashboard shows
	DashboardRecentLimit = 4
	// PhoneDigits is the required phone number length
	PhoneDigits = 10
)

// latestCommentSelect annotates each lead with the comment of its most
// recently created follow-up (NULL when none exists). Ties on created_at
// fall back to the higher row id.
const latestCommentSelect = "(SELECT comment FROM follow_ups" +
	" WHERE follow_ups.lead_id = leads.id" +
	" ORDER BY follow_ups.created_at DESC, follow_ups.id DESC LIMIT 1) AS latest_comment"

// LeadFilters holds the listing query parameters. NameOnly narrows the
// search to the name column, which is the dashboard's (narrower) behavior;
// the list view and the API match name, email and phone.
type LeadFilters struct {
	Query    string
	Status   string
	NameOnly bool
}

// AnnotatedLead is one row of the lead read model
type AnnotatedLead struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	LatestComment *string   `json:"latest_comment"`
}

// LeadPage is one page of the lead list plus pagination metadata
type LeadPage struct {
	Leads      []AnnotatedLead `json:"leads"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalCount int64           `json:"total_count"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
}

// LeadCounts is the dashboard summary aggregate
type LeadCounts struct {
	Total      int64 `gorm:"column:total_count" json:"total"`
	New        int64 `gorm:"column:new_count" json:"new"`
	InProgress int64 `gorm:"column:in_progress_count" json:"in_progress"`
	Converted  int64 `gorm:"column:converted_count" json:"converted"`
	Lost       int64 `gorm:"column:lost_count" json:"lost"`
}

// LeadInput carries the trimmed form fields of a create or update
type LeadInput struct {
	Name   string
	Email  string
	Phone  string
	Status string
}

func applyLeadFilters(q *gorm.DB, filters LeadFilters) *gorm.DB {
	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		if filters.NameOnly {
			q = q.Where("LOWER(leads.name) LIKE ?", pattern)
		} else {
			q = q.Where(
				"LOWER(leads.name) LIKE ? OR LOWER(leads.email) LIKE ? OR LOWER(leads.phone) LIKE ?",
				pattern, pattern, pattern,
			)
		}
	}
	if filters.Status != "" {
		q = q.Where("leads.status = ?", filters.Status)
	}
	return q
}

// annotatedLeadQuery builds the filtered, annotated, newest-first query
// over non-deleted leads
func annotatedLeadQuery(db *gorm.DB, filters LeadFilters) *gorm.DB {
	q := db.Table("leads").
		Select("leads.id, leads.name, leads.email, leads.phone, leads.status, leads.created_at, " + latestCommentSelect).
		Where("leads.is_deleted = ?", false)
	return applyLeadFilters(q, filters).Order("leads.id DESC")
}

// ListLeads returns one page of the lead read model. Page numbers out of
// range clamp to the last valid page (callers map non-numeric input to 1),
// so listing never errors over an empty or overshot page.
func ListLeads(db *gorm.DB, filters LeadFilters, page int) (*LeadPage, error) {
	var total int64
	countQuery := applyLeadFilters(
		db.Model(&models.Lead{}).Where("leads.is_deleted = ?", false),
		filters,
	)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	totalPages := int((total + LeadPageSize - 1) / LeadPageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		page = totalPages
	}

	var leads []AnnotatedLead
	err := annotatedLeadQuery(db, filters).
		Limit(LeadPageSize).
		Offset((page - 1) * LeadPageSize).
		Scan(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return &LeadPage{
		Leads:      leads,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}, nil
}

// RecentLeads returns the newest leads for the dashboard (first 4 rows,
// no pagination). The search filter is always name-only here.
func RecentLeads(db *gorm.DB, filters LeadFilters) ([]AnnotatedLead, error) {
	filters.NameOnly = true

	var leads []AnnotatedLead
	err := annotatedLeadQuery(db, filters).
		Limit(DashboardRecentLimit).
		Scan(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent leads: %w", err)
	}
	return leads, nil
}

// AllLeads returns the full filtered, annotated, newest-first set without
// pagination (the API surface)
func AllLeads(db *gorm.DB, filters LeadFilters) ([]AnnotatedLead, error) {
	var leads []AnnotatedLead
	err := annotatedLeadQuery(db, filters).Scan(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// SummaryCounts computes the status totals in a single aggregate pass.
// The counts cover every lead ever created, soft-deleted included, while
// every listing view excludes deleted rows; that discrepancy is observed
// behavior and is kept.
func SummaryCounts(db *gorm.DB) (*LeadCounts, error) {
	var counts LeadCounts
	err := db.Table("leads").
		Select("COUNT(*) AS total_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS new_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS converted_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS lost_count",
			models.LeadStatusNew, models.LeadStatusInProgress,
			models.LeadStatusConverted, models.LeadStatusLost).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute lead counts: %w", err)
	}
	return &counts, nil
}

// ValidateLeadFields checks the shared create/update field rules
func ValidateLeadFields(name, email, phone string) error {
	if name == "" || email == "" || phone == "" {
		return ErrFieldsRequired
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return ErrPhoneDigits
		}
	}
	if len(phone) != PhoneDigits {
		return fmt.Errorf("%w (got %d digits)", ErrPhoneLength, len(phone))
	}
	return nil
}

// CreateLead validates the input, inserts a new lead with status "new" and
// appends the matching audit row, both in one transaction. The duplicate
// email check spans soft-deleted leads: the email column is unique among
// deleted and live rows alike.
func CreateLead(db *gorm.DB, input LeadInput, actorID uint) (*models.Lead, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)

	if err := ValidateLeadFields(name, email, phone); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Lead{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	lead := &models.Lead{
		Name:   name,
		Email:  email,
		Phone:  phone,
		Status: models.LeadStatusNew,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lead).Error; err != nil {
			return err
		}
		return appendActionLog(tx, actorID, models.ActionCreate, &lead.ID,
			fmt.Sprintf("Lead created with name: %s, email: %s, phone: %s", name, email, phone))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return lead, nil
}

// UpdateLead applies validated field changes and/or a new follow-up comment
// to a non-deleted lead. A field change appends one "update" audit row
// describing old -> new values; a follow-up comment appends a FollowUp row
// plus one "followup" audit row. Both may happen in the same call. When
// neither applies, ErrNoChanges is returned and nothing is written.
func UpdateLead(db *gorm.DB, id uint, input LeadInput, followUpComment string, actorID uint) (*models.Lead, error) {
	var lead models.Lead
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	status := strings.TrimSpace(input.Status)
	followUpComment = strings.TrimSpace(followUpComment)

	if err := ValidateLeadFields(name, email, phone); err != nil {
		return nil, err
	}
	if !models.IsValidLeadStatus(status) {
		return nil, ErrInvalidStatus
	}

	var changedFields []string
	if name != lead.Name {
		changedFields = append(changedFields, fmt.Sprintf("name: %s -> %s", lead.Name, name))
	}
	if email != lead.Email {
		changedFields = append(changedFields, fmt.Sprintf("email: %s -> %s", lead.Email, email))
	}
	if phone != lead.Phone {
		changedFields = append(changedFields, fmt.Sprintf("phone: %s -> %s", lead.Phone, phone))
	}
	if status != lead.Status {
		changedFields = append(changedFields, fmt.Sprintf("status: %s -> %s", lead.Status, status))
	}

	leadChanged := len(changedFields) > 0
	if !leadChanged && followUpComment == "" {
		return nil, ErrNoChanges
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if leadChanged {
			lead.Name = name
			lead.Email = email
			lead.Phone = phone
			lead.Status = status
			if err := tx.Save(&lead).Error; err != nil {
				return err
			}
			if err := appendActionLog(tx, actorID, models.ActionUpdate, &lead.ID,
				"Updated fields: "+strings.Join(changedFields, ", ")); err != nil {
				return err
			}
		}

		if followUpComment != "" {
			followUp := &models.FollowUp{
				LeadID:  lead.ID,
				UserID:  &actorID,
				Comment: followUpComment,
			}
			if err := tx.Create(followUp).Error; err != nil {
				return err
			}
			if err := appendActionLog(tx, actorID, models.ActionFollowUp, &lead.ID, followUpComment); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	return &lead, nil
}

// SoftDeleteLead marks a lead deleted and appends the audit row. The
// lookup here is deliberately NOT filtered on is_deleted (unlike update's):
// the original behaves this way and the inconsistency is kept.
func SoftDeleteLead(db *gorm.DB, id uint, actorID uint) (*models.Lead, error) {
	var lead models.Lead
	if err := db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		lead.IsDeleted = true
		if err := tx.Save(&lead).Error; err != nil {
			return err
		}
		return appendActionLog(tx, actorID, models.ActionDelete, &lead.ID,
			fmt.Sprintf("Lead deleted: (Name: %s) (ID: %d)", lead.Name, lead.ID))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete lead: %w", err)
	}

	return &lead, nil
}

// GetLead fetches a lead by id regardless of its deleted state
func GetLead(db *gorm.DB, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// GetActiveLead fetches a non-deleted lead by id
func GetActiveLead(db *gorm.DB, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// ListFollowUps returns a lead's follow-ups, newest first
func ListFollowUps(db *gorm.DB, leadID uint) ([]models.FollowUp, error) {
	var followUps []models.FollowUp
	err := db.Where("lead_id = ?", leadID).
		Order("created_at DESC, id DESC").
		Find(&followUps).Error
	return followUps, err
}

func appendActionLog(tx *gorm.DB, actorID uint, action models.LeadAction, leadID *uint, comment string) error {
	entry := &models.ActionLog{
		Action:  action,
		LeadID:  leadID,
		Comment: comment,
	}
	if actorID != 0 {
		entry.UserID = &actorID
	}
	return tx.Create(entry).Error
}
