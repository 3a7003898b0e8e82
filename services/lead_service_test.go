package services

import (
	"fmt"
	"lead_crm_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLeadTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Lead{},
		&models.FollowUp{},
		&models.ActionLog{},
	)
	require.NoError(t, err)

	return db
}

func createTestLead(t *testing.T, db *gorm.DB, name, email string) *models.Lead {
	lead, err := CreateLead(db, LeadInput{Name: name, Email: email, Phone: "1234567890"}, 1)
	require.NoError(t, err)
	return lead
}

func TestValidateLeadFields(t *testing.T) {
	assert.ErrorIs(t, ValidateLeadFields("", "a@example.com", "1234567890"), ErrFieldsRequired)
	assert.ErrorIs(t, ValidateLeadFields("A", "", "1234567890"), ErrFieldsRequired)
	assert.ErrorIs(t, ValidateLeadFields("A", "a@example.com", ""), ErrFieldsRequired)
	assert.ErrorIs(t, ValidateLeadFields("A", "a@example.com", "12345678a0"), ErrPhoneDigits)
	assert.ErrorIs(t, ValidateLeadFields("A", "a@example.com", "123456789"), ErrPhoneLength)
	assert.ErrorIs(t, ValidateLeadFields("A", "a@example.com", "12345678901"), ErrPhoneLength)
	assert.NoError(t, ValidateLeadFields("A", "a@example.com", "1234567890"))
}

func TestCreateLeadDefaultsToNew(t *testing.T) {
	db := setupLeadTestDB(t)

	lead, err := CreateLead(db, LeadInput{Name: "John Doe", Email: "john@example.com", Phone: "1234567890"}, 7)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.False(t, lead.IsDeleted)

	var logs []models.ActionLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionCreate, logs[0].Action)
	assert.Equal(t, lead.ID, *logs[0].LeadID)
	assert.Equal(t, uint(7), *logs[0].UserID)
	assert.Contains(t, logs[0].Comment, "john@example.com")
}

func TestCreateLeadDuplicateEmail(t *testing.T) {
	db := setupLeadTestDB(t)

	first := createTestLead(t, db, "First", "a@example.com")

	_, err := CreateLead(db, LeadInput{Name: "Second", Email: "a@example.com", Phone: "0987654321"}, 1)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The check spans soft-deleted rows too
	_, err = SoftDeleteLead(db, first.ID, 1)
	require.NoError(t, err)

	_, err = CreateLead(db, LeadInput{Name: "Third", Email: "a@example.com", Phone: "0987654321"}, 1)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateLeadRejectsBadPhone(t *testing.T) {
	db := setupLeadTestDB(t)

	_, err := CreateLead(db, LeadInput{Name: "A", Email: "a@example.com", Phone: "123456789"}, 1)
	assert.ErrorIs(t, err, ErrPhoneLength)

	_, err = CreateLead(db, LeadInput{Name: "A", Email: "a@example.com", Phone: "12345678901"}, 1)
	assert.ErrorIs(t, err, ErrPhoneLength)

	var count int64
	db.Model(&models.Lead{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateLeadNoChanges(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	input := LeadInput{Name: "John", Email: "john@example.com", Phone: "1234567890", Status: models.LeadStatusNew}
	_, err := UpdateLead(db, lead.ID, input, "", 1)
	assert.ErrorIs(t, err, ErrNoChanges)

	var logCount, followUpCount int64
	db.Model(&models.ActionLog{}).Count(&logCount)
	db.Model(&models.FollowUp{}).Count(&followUpCount)
	assert.Equal(t, int64(1), logCount) // only the create row
	assert.Zero(t, followUpCount)
}

func TestUpdateLeadStatusTransitions(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	// Any status may move to any other, no transition rules
	for _, status := range []string{models.LeadStatusInProgress, models.LeadStatusConverted, models.LeadStatusLost, models.LeadStatusNew} {
		input := LeadInput{Name: "John", Email: "john@example.com", Phone: "1234567890", Status: status}
		updated, err := UpdateLead(db, lead.ID, input, "", 1)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestUpdateLeadRejectsInvalidStatus(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	for _, status := range []string{"", "archived", "NEW"} {
		input := LeadInput{Name: "John", Email: "john@example.com", Phone: "1234567890", Status: status}
		_, err := UpdateLead(db, lead.ID, input, "", 1)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	}

	// Nothing was written, not even audit rows beyond the create
	var logs int64
	require.NoError(t, db.Model(&models.ActionLog{}).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestUpdateLeadFieldsAndFollowUp(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	input := LeadInput{Name: "Johnny", Email: "john@example.com", Phone: "1234567890", Status: models.LeadStatusInProgress}
	_, err := UpdateLead(db, lead.ID, input, "Called, interested in demo", 4)
	require.NoError(t, err)

	var followUps []models.FollowUp
	require.NoError(t, db.Find(&followUps).Error)
	require.Len(t, followUps, 1)
	assert.Equal(t, "Called, interested in demo", followUps[0].Comment)
	assert.Equal(t, uint(4), *followUps[0].UserID)

	// One update row describing old -> new, one followup row, plus create
	var logs []models.ActionLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, models.ActionUpdate, logs[1].Action)
	assert.Contains(t, logs[1].Comment, "name: John -> Johnny")
	assert.Contains(t, logs[1].Comment, "status: new -> in_progress")
	assert.Equal(t, models.ActionFollowUp, logs[2].Action)
	assert.Equal(t, "Called, interested in demo", logs[2].Comment)
}

func TestUpdateLeadFollowUpOnly(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	input := LeadInput{Name: "John", Email: "john@example.com", Phone: "1234567890", Status: models.LeadStatusNew}
	_, err := UpdateLead(db, lead.ID, input, "Left a voicemail", 1)
	require.NoError(t, err)

	var logs []models.ActionLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionFollowUp, logs[1].Action)
}

func TestUpdateLeadExcludesDeleted(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	_, err := SoftDeleteLead(db, lead.ID, 1)
	require.NoError(t, err)

	input := LeadInput{Name: "Johnny", Email: "john@example.com", Phone: "1234567890", Status: models.LeadStatusNew}
	_, err = UpdateLead(db, lead.ID, input, "", 1)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestSoftDeleteLead(t *testing.T) {
	db := setupLeadTestDB(t)
	lead := createTestLead(t, db, "John", "john@example.com")

	input := LeadInput{Name: "John", Email: "john@example.com", Phone: "1234567890", Status: models.LeadStatusNew}
	_, err := UpdateLead(db, lead.ID, input, "First call", 1)
	require.NoError(t, err)

	deleted, err := SoftDeleteLead(db, lead.ID, 2)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	// Hidden from every listing surface
	page, err := ListLeads(db, LeadFilters{}, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Leads)

	all, err := AllLeads(db, LeadFilters{})
	require.NoError(t, err)
	assert.Empty(t, all)

	// But the row and its follow-ups remain retrievable directly
	kept, err := GetLead(db, lead.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsDeleted)

	followUps, err := ListFollowUps(db, lead.ID)
	require.NoError(t, err)
	assert.Len(t, followUps, 1)

	var deleteLog models.ActionLog
	require.NoError(t, db.Where("action = ?", models.ActionDelete).First(&deleteLog).Error)
	assert.Equal(t, uint(2), *deleteLog.UserID)

	// The delete lookup is not filtered on the flag, so deleting again
	// also succeeds (observed behavior, kept)
	_, err = SoftDeleteLead(db, lead.ID, 2)
	assert.NoError(t, err)
}

func TestLatestCommentAnnotation(t *testing.T) {
	db := setupLeadTestDB(t)
	l1 := createTestLead(t, db, "With Comments", "l1@example.com")
	createTestLead(t, db, "Without Comments", "l2@example.com")

	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	userID := uint(1)
	require.NoError(t, db.Create(&models.FollowUp{LeadID: l1.ID, UserID: &userID, Comment: "first contact", CreatedAt: older}).Error)
	require.NoError(t, db.Create(&models.FollowUp{LeadID: l1.ID, UserID: &userID, Comment: "second contact", CreatedAt: newer}).Error)

	page, err := ListLeads(db, LeadFilters{}, 1)
	require.NoError(t, err)
	require.Len(t, page.Leads, 2)

	// Newest-first ordering by id: l2 comes before l1
	assert.Equal(t, "Without Comments", page.Leads[0].Name)
	assert.Nil(t, page.Leads[0].LatestComment)

	assert.Equal(t, "With Comments", page.Leads[1].Name)
	require.NotNil(t, page.Leads[1].LatestComment)
	assert.Equal(t, "second contact", *page.Leads[1].LatestComment)
}

func TestListLeadsPagination(t *testing.T) {
	db := setupLeadTestDB(t)
	for i := 0; i < 7; i++ {
		createTestLead(t, db, fmt.Sprintf("Lead %d", i), fmt.Sprintf("lead%d@example.com", i))
	}

	page, err := ListLeads(db, LeadFilters{}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Leads, 5)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(7), page.TotalCount)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page, err = ListLeads(db, LeadFilters{}, 2)
	require.NoError(t, err)
	assert.Len(t, page.Leads, 2)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	// Out-of-range pages clamp to the last valid page
	page, err = ListLeads(db, LeadFilters{}, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Leads, 2)

	page, err = ListLeads(db, LeadFilters{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
}

func TestListLeadsSearch(t *testing.T) {
	db := setupLeadTestDB(t)

	alice, err := CreateLead(db, LeadInput{Name: "Alice", Email: "alice@corp.com", Phone: "1111111111"}, 1)
	require.NoError(t, err)
	_, err = CreateLead(db, LeadInput{Name: "Bob", Email: "bob@alicemail.com", Phone: "2222222222"}, 1)
	require.NoError(t, err)

	// Wide search matches name, email and phone, case-insensitively
	page, err := ListLeads(db, LeadFilters{Query: "ALICE"}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Leads, 2)

	// Name-only search (the dashboard's behavior) is narrower
	recent, err := RecentLeads(db, LeadFilters{Query: "ALICE"})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Alice", recent[0].Name)

	// Phone substring
	page, err = ListLeads(db, LeadFilters{Query: "2222"}, 1)
	require.NoError(t, err)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, "Bob", page.Leads[0].Name)

	// Status filter
	input := LeadInput{Name: "Alice", Email: "alice@corp.com", Phone: "1111111111", Status: models.LeadStatusConverted}
	_, err = UpdateLead(db, alice.ID, input, "", 1)
	require.NoError(t, err)

	page, err = ListLeads(db, LeadFilters{Status: models.LeadStatusConverted}, 1)
	require.NoError(t, err)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, "Alice", page.Leads[0].Name)
}

func TestSummaryCountsIncludeDeleted(t *testing.T) {
	db := setupLeadTestDB(t)

	lead := createTestLead(t, db, "Kept", "kept@example.com")
	doomed := createTestLead(t, db, "Doomed", "doomed@example.com")

	input := LeadInput{Name: "Kept", Email: "kept@example.com", Phone: "1234567890", Status: models.LeadStatusConverted}
	_, err := UpdateLead(db, lead.ID, input, "", 1)
	require.NoError(t, err)

	_, err = SoftDeleteLead(db, doomed.ID, 1)
	require.NoError(t, err)

	counts, err := SummaryCounts(db)
	require.NoError(t, err)

	// Soft-deleted rows still count: the aggregate runs over all leads
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(1), counts.New)
	assert.Equal(t, int64(1), counts.Converted)
	assert.Zero(t, counts.InProgress)
	assert.Zero(t, counts.Lost)

	// The listing surfaces meanwhile exclude the deleted row
	page, err := ListLeads(db, LeadFilters{}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Leads, 1)
}
