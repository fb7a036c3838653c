package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
)

func TestGetComplaintStats_Empty(t *testing.T) {
	db := newRepoDB(t)

	stats, err := GetComplaintStats(context.Background(), db)
	if err != nil {
		t.Fatalf("GetComplaintStats: %v", err)
	}
	if stats.Total != 0 || stats.Pending != 0 || stats.InProgress != 0 || stats.Resolved != 0 || stats.Rejected != 0 {
		t.Fatalf("empty store must report zeros: %+v", stats)
	}
	if stats.Categories == nil || len(stats.Categories) != 0 {
		t.Fatalf("categories must be an empty slice, got %#v", stats.Categories)
	}
}

func TestGetComplaintStats_CountsAndOrdering(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	seed := func(i int, cat domain.Category, st domain.Status) {
		c := seedComplaint(t, db, fmt.Sprintf("ST%d2222222", i), cat)
		if st != domain.StatusPending {
			if err := UpdateComplaintStatus(ctx, db, c.ID, st); err != nil {
				t.Fatalf("status: %v", err)
			}
		}
	}
	seed(0, domain.CategoryRoads, domain.StatusPending)
	seed(1, domain.CategoryRoads, domain.StatusResolved)
	seed(2, domain.CategoryRoads, domain.StatusRejected)
	seed(3, domain.CategoryWater, domain.StatusInProgress)
	seed(4, domain.CategoryWater, domain.StatusResolved)
	seed(5, domain.CategoryWaste, domain.StatusPending)

	stats, err := GetComplaintStats(ctx, db)
	if err != nil {
		t.Fatalf("GetComplaintStats: %v", err)
	}
	if stats.Total != 6 {
		t.Fatalf("total = %d; want 6", stats.Total)
	}
	if stats.Pending != 2 || stats.InProgress != 1 || stats.Resolved != 2 || stats.Rejected != 1 {
		t.Fatalf("status counts wrong: %+v", stats)
	}
	if len(stats.Categories) != 3 {
		t.Fatalf("expected 3 category buckets, got %d", len(stats.Categories))
	}
	if stats.Categories[0].Name != domain.CategoryRoads || stats.Categories[0].Count != 3 {
		t.Fatalf("top bucket must be ROADS(3): %+v", stats.Categories[0])
	}
	for i := 1; i < len(stats.Categories); i++ {
		if stats.Categories[i].Count > stats.Categories[i-1].Count {
			t.Fatalf("buckets not sorted descending at %d: %+v", i, stats.Categories)
		}
	}
}

func TestGetComplaintStats_ExcludesSoftDeleted(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	c := seedComplaint(t, db, "SD22222222", domain.CategoryRoads)
	seedComplaint(t, db, "SD32222222", domain.CategoryRoads)
	if err := DeleteComplaint(ctx, db, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stats, err := GetComplaintStats(ctx, db)
	if err != nil {
		t.Fatalf("GetComplaintStats: %v", err)
	}
	if stats.Total != 1 {
		t.Fatalf("soft-deleted rows must not count, total = %d", stats.Total)
	}
}
