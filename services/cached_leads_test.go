package services

import (
	"context"
	"lead_crm_go/cache"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedLeadPageStaleWithinTTL(t *testing.T) {
	db := setupLeadTestDB(t)
	store := cache.NewInMemory()
	ctx := context.Background()

	createTestLead(t, db, "First", "first@example.com")

	page, err := CachedLeadPage(ctx, db, store, LeadFilters{}, "")
	require.NoError(t, err)
	require.Len(t, page.Leads, 1)

	// A write does not evict anything: the same parameter combination
	// keeps serving the cached result, stale total included
	createTestLead(t, db, "Second", "second@example.com")

	page, err = CachedLeadPage(ctx, db, store, LeadFilters{}, "")
	require.NoError(t, err)
	assert.Len(t, page.Leads, 1)
	assert.Equal(t, int64(1), page.TotalCount)

	// A differing parameter combination misses and sees the new lead
	page, err = CachedLeadPage(ctx, db, store, LeadFilters{Query: "second"}, "")
	require.NoError(t, err)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, "Second", page.Leads[0].Name)

	// So does a fresh cache
	page, err = CachedLeadPage(ctx, db, cache.NewInMemory(), LeadFilters{}, "")
	require.NoError(t, err)
	assert.Len(t, page.Leads, 2)
}

func TestCachedLeadPageParameterKeys(t *testing.T) {
	db := setupLeadTestDB(t)
	store := cache.NewInMemory()
	ctx := context.Background()

	for _, lead := range []struct{ name, email string }{
		{"Alpha", "alpha@example.com"},
		{"Beta", "beta@example.com"},
	} {
		createTestLead(t, db, lead.name, lead.email)
	}

	// Distinct parameter combinations never collide
	all, err := CachedLeadPage(ctx, db, store, LeadFilters{}, "1")
	require.NoError(t, err)
	assert.Len(t, all.Leads, 2)

	filtered, err := CachedLeadPage(ctx, db, store, LeadFilters{Query: "alpha"}, "1")
	require.NoError(t, err)
	assert.Len(t, filtered.Leads, 1)

	// Non-numeric page values degrade to the first page
	page, err := CachedLeadPage(ctx, db, store, LeadFilters{}, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)

	// Out-of-range page values clamp to the last page
	page, err = CachedLeadPage(ctx, db, store, LeadFilters{}, "99")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Leads, 2)
}

func TestCachedRecentLeadsNameOnly(t *testing.T) {
	db := setupLeadTestDB(t)
	store := cache.NewInMemory()
	ctx := context.Background()

	createTestLead(t, db, "Alice", "alice@corp.com")
	createTestLead(t, db, "Bob", "bob@alicemail.com")

	// The dashboard search is name-only even though Bob's email matches
	recent, err := CachedRecentLeads(ctx, db, store, LeadFilters{Query: "alice"})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Alice", recent[0].Name)
}

func TestCachedSummaryCountsSharedKey(t *testing.T) {
	db := setupLeadTestDB(t)
	store := cache.NewInMemory()
	ctx := context.Background()

	createTestLead(t, db, "One", "one@example.com")

	counts, err := CachedSummaryCounts(ctx, db, store)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Total)

	// Writes do not invalidate; the constant key keeps serving the old
	// aggregate until the TTL expires
	createTestLead(t, db, "Two", "two@example.com")

	counts, err = CachedSummaryCounts(ctx, db, store)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Total)

	counts, err = CachedSummaryCounts(ctx, db, cache.NewInMemory())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
}
