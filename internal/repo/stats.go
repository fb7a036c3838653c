// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate statistics query that
// backs the public stats endpoint and the admin dashboard. It is a
// materialized aggregation over the live complaint table, never a cached
// counter, so a status transition is visible in the very next call.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
)

// CategoryCount pairs a complaint category with the number of complaints
// filed under it.
type CategoryCount struct {
	Name  domain.Category `json:"name"`
	Count int64           `json:"count"`
}

// ComplaintStats is the aggregate view over all complaints: the grand
// total, a count per lifecycle status, and per-category counts sorted
// descending by count.
type ComplaintStats struct {
	Total      int64           `json:"total"`
	Pending    int64           `json:"pending"`
	InProgress int64           `json:"inProgress"`
	Resolved   int64           `json:"resolved"`
	Rejected   int64           `json:"rejected"`
	Categories []CategoryCount `json:"categories"`
}

// GetComplaintStats computes ComplaintStats from the current persisted
// state. Status counts come from one GROUP BY pass; categories from a
// second, ordered descending by count.
func GetComplaintStats(ctx context.Context, db *gorm.DB) (*ComplaintStats, error) {
	stats := &ComplaintStats{Categories: []CategoryCount{}}

	if err := db.WithContext(ctx).Model(&domain.Complaint{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var byStatus []struct {
		Status domain.Status
		N      int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		switch row.Status {
		case domain.StatusPending:
			stats.Pending = row.N
		case domain.StatusInProgress:
			stats.InProgress = row.N
		case domain.StatusResolved:
			stats.Resolved = row.N
		case domain.StatusRejected:
			stats.Rejected = row.N
		}
	}

	var byCategory []struct {
		Category domain.Category
		N        int64
	}
	err = db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Select("category, COUNT(*) AS n").
		Group("category").
		Order("n DESC").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byCategory {
		stats.Categories = append(stats.Categories, CategoryCount{Name: row.Category, Count: row.N})
	}

	return stats, nil
}
