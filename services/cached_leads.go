package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"lead_crm_go/cache"

	"gorm.io/gorm"
)

const (
	// LeadCacheTTL bounds how stale any cached read-model entry can get.
	// There is no invalidation on writes: a create, update or delete
	// becomes visible to cached readers only when their entry expires.
	LeadCacheTTL = 30 * time.Second

	// countsCacheKey is shared across all requests
	countsCacheKey = "dashboard_counts"
)

// CachedLeadPage is the read-through wrapper around ListLeads. The cache
// key carries the literal request parameters, the raw page value included,
// so distinct parameter combinations never collide. Hits return the entry
// verbatim, stale pagination totals and all. Cache failures other than a
// miss are logged and fall through to the database.
func CachedLeadPage(ctx context.Context, db *gorm.DB, store cache.Cache, filters LeadFilters, rawPage string) (*LeadPage, error) {
	if rawPage == "" {
		rawPage = "1"
	}
	key := cache.Key("lead_list", "q="+filters.Query, "status="+filters.Status, "page="+rawPage)

	var cached LeadPage
	err := store.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[CACHE] read failed for %s: %v", key, err)
	}

	// Non-numeric page values degrade to the first page; out-of-range
	// values clamp to the last page inside ListLeads.
	page, convErr := strconv.Atoi(rawPage)
	if convErr != nil {
		page = 1
	}

	result, err := ListLeads(db, filters, page)
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, key, result, LeadCacheTTL); err != nil {
		log.Printf("[CACHE] write failed for %s: %v", key, err)
	}
	return result, nil
}

// CachedRecentLeads is the read-through wrapper around RecentLeads
func CachedRecentLeads(ctx context.Context, db *gorm.DB, store cache.Cache, filters LeadFilters) ([]AnnotatedLead, error) {
	key := cache.Key("dashboard_recent", "q="+filters.Query, "status="+filters.Status)

	var cached []AnnotatedLead
	err := store.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[CACHE] read failed for %s: %v", key, err)
	}

	leads, err := RecentLeads(db, filters)
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, key, leads, LeadCacheTTL); err != nil {
		log.Printf("[CACHE] write failed for %s: %v", key, err)
	}
	return leads, nil
}

// CachedSummaryCounts is the read-through wrapper around SummaryCounts.
// One constant key serves every request.
func CachedSummaryCounts(ctx context.Context, db *gorm.DB, store cache.Cache) (*LeadCounts, error) {
	var cached LeadCounts
	err := store.Get(ctx, countsCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[CACHE] read failed for %s: %v", countsCacheKey, err)
	}

	counts, err := SummaryCounts(db)
	if err != nil {
		return nil, err
	}

	if err := store.Set(ctx, countsCacheKey, counts, LeadCacheTTL); err != nil {
		log.Printf("[CACHE] write failed for %s: %v", countsCacheKey, err)
	}
	return counts, nil
}
