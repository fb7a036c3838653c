// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Complaint
// aggregate: the complaint row itself plus its timeline events, responses,
// and attachments.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a complaint is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.ComplaintService) which enforces validation, tracking-ID
// assignment, and transition semantics.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// DateRange buckets a complaint-list query by creation time, computed
// relative to the moment the query runs.
type DateRange string

const (
	RangeAll   DateRange = ""
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

// ComplaintFilter is the explicit, tagged shape of a complaint list query.
// Zero-valued fields are not applied; supplied fields combine with AND.
type ComplaintFilter struct {
	Status   domain.Status
	Category domain.Category
	Agency   domain.Agency
	// Search is matched case-insensitively as a substring against title,
	// description, tracking ID, and location.
	Search string
	Range  DateRange
	// Limit caps the result set when > 0. Offset skips rows when > 0.
	Limit  int
	Offset int
}

// CreateComplaint inserts a complaint row together with its attachments and
// the initial PENDING timeline event in the caller-supplied handle. Callers
// that need atomicity (complaint + event either both persist or neither)
// must pass a transaction-bound db.
func CreateComplaint(ctx context.Context, db *gorm.DB, c *domain.Complaint) error {
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	for i := range c.Attachments {
		if c.Attachments[i].ID == "" {
			c.Attachments[i].ID = uuid.NewString()
		}
		c.Attachments[i].ComplaintID = c.ID
		c.Attachments[i].CreatedAt = now
	}
	return db.WithContext(ctx).Create(c).Error
}

// AppendTimelineEvent inserts one immutable timeline event for complaintID.
func AppendTimelineEvent(ctx context.Context, db *gorm.DB, complaintID string, status domain.Status, note string) (*domain.TimelineEvent, error) {
	ev := &domain.TimelineEvent{
		ID:          uuid.NewString(),
		ComplaintID: complaintID,
		Status:      status,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

// GetComplaint fetches a single complaint by its internal ID with timeline
// (chronological), responses, and attachments preloaded. Returns
// ErrNotFound if the record does not exist.
func GetComplaint(ctx context.Context, db *gorm.DB, id string) (*domain.Complaint, error) {
	var c domain.Complaint
	err := db.WithContext(ctx).
		Preload("Timeline", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }).
		Preload("Responses", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }).
		Preload("Attachments").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetComplaintByTrackingID fetches a complaint by its public tracking
// identifier with associations preloaded. The match is exact; callers
// normalize case before lookup (identifiers are stored uppercase).
func GetComplaintByTrackingID(ctx context.Context, db *gorm.DB, trackingID string) (*domain.Complaint, error) {
	var c domain.Complaint
	err := db.WithContext(ctx).
		Preload("Timeline", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }).
		Preload("Responses", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at asc") }).
		Preload("Attachments").
		Where("tracking_id = ?", trackingID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// TrackingIDExists reports whether any complaint already carries trackingID.
// Used for collision checks during tracking-ID generation.
func TrackingIDExists(ctx context.Context, db *gorm.DB, trackingID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Where("tracking_id = ?", trackingID).
		Count(&n).Error
	return n > 0, err
}

// ListComplaints returns complaints matching f, newest-first by creation
// time. Each supplied filter dimension narrows the result (logical AND).
func ListComplaints(ctx context.Context, db *gorm.DB, f ComplaintFilter) ([]domain.Complaint, error) {
	q := applyFilter(db.WithContext(ctx).Model(&domain.Complaint{}), f, time.Now().UTC()).
		Order("created_at desc")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.Complaint
	err := q.Find(&out).Error
	return out, err
}

// CountComplaints returns the number of complaints matching f, ignoring
// Limit/Offset. Used for pagination metadata.
func CountComplaints(ctx context.Context, db *gorm.DB, f ComplaintFilter) (int64, error) {
	var total int64
	err := applyFilter(db.WithContext(ctx).Model(&domain.Complaint{}), f, time.Now().UTC()).
		Count(&total).Error
	return total, err
}

// applyFilter composes the WHERE clauses for f onto q. The now parameter
// anchors relative date-range buckets.
func applyFilter(q *gorm.DB, f ComplaintFilter, now time.Time) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Agency != "" {
		q = q.Where("agency = ?", f.Agency)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tracking_id) LIKE ? OR LOWER(location) LIKE ?",
			pat, pat, pat, pat,
		)
	}
	if cutoff, ok := rangeCutoff(f.Range, now); ok {
		q = q.Where("created_at >= ?", cutoff)
	}
	return q
}

// rangeCutoff translates a DateRange bucket into an inclusive lower bound.
// RangeToday means "since local midnight UTC"; the remaining buckets are
// rolling windows.
func rangeCutoff(r DateRange, now time.Time) (time.Time, bool) {
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, 0, -30), true
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// UpdateComplaintStatus sets the status (and UpdatedAt) of a complaint.
// Returns ErrNotFound when no row was affected.
func UpdateComplaintStatus(ctx context.Context, db *gorm.DB, id string, status domain.Status) error {
	res := db.WithContext(ctx).
		Model(&domain.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteComplaint soft-deletes a complaint by ID. Returns ErrNotFound when
// the complaint does not exist.
func DeleteComplaint(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Complaint{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateResponse appends a staff response to complaintID.
func CreateResponse(ctx context.Context, db *gorm.DB, complaintID, responderID, responderName, message string) (*domain.Response, error) {
	r := &domain.Response{
		ID:            uuid.NewString(),
		ComplaintID:   complaintID,
		ResponderID:   responderID,
		ResponderName: responderName,
		Message:       message,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}
