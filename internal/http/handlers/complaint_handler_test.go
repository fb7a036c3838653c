package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
	"github.com/civicdesk/go-complaint-backend/internal/repo"
	"github.com/civicdesk/go-complaint-backend/internal/services"
)

// stubComplaintSvc implements ComplaintService with overridable function
// fields, so each test wires exactly the behavior it needs.
type stubComplaintSvc struct {
	createFn     func(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error)
	getFn        func(ctx context.Context, id string) (*domain.Complaint, error)
	lookupFn     func(ctx context.Context, trackingID string) (*domain.Complaint, error)
	listFn       func(ctx context.Context, f repo.ComplaintFilter) ([]domain.Complaint, int64, error)
	transitionFn func(ctx context.Context, id string, status domain.Status, note string) (*domain.Complaint, error)
	respondFn    func(ctx context.Context, id, responderID, responderName, message string) (*domain.Response, error)
	updateFn     func(ctx context.Context, id string, patch services.UpdatePatch, responderID, responderName string) (*domain.Complaint, error)
	deleteFn     func(ctx context.Context, id string) error
	statsFn      func(ctx context.Context) (*repo.ComplaintStats, error)
}

func (s *stubComplaintSvc) Create(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error) {
	return s.createFn(ctx, in)
}
func (s *stubComplaintSvc) Get(ctx context.Context, id string) (*domain.Complaint, error) {
	return s.getFn(ctx, id)
}
func (s *stubComplaintSvc) Lookup(ctx context.Context, trackingID string) (*domain.Complaint, error) {
	return s.lookupFn(ctx, trackingID)
}
func (s *stubComplaintSvc) List(ctx context.Context, f repo.ComplaintFilter) ([]domain.Complaint, int64, error) {
	return s.listFn(ctx, f)
}
func (s *stubComplaintSvc) Transition(ctx context.Context, id string, status domain.Status, note string) (*domain.Complaint, error) {
	return s.transitionFn(ctx, id, status, note)
}
func (s *stubComplaintSvc) Respond(ctx context.Context, id, responderID, responderName, message string) (*domain.Response, error) {
	return s.respondFn(ctx, id, responderID, responderName, message)
}
func (s *stubComplaintSvc) Update(ctx context.Context, id string, patch services.UpdatePatch, responderID, responderName string) (*domain.Complaint, error) {
	return s.updateFn(ctx, id, patch, responderID, responderName)
}
func (s *stubComplaintSvc) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
func (s *stubComplaintSvc) Stats(ctx context.Context) (*repo.ComplaintStats, error) {
	return s.statsFn(ctx)
}

func newComplaintRouter(svc ComplaintService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc, nil, nil, 0)
	r := gin.New()
	r.POST("/complaints", h.CreateComplaint)
	r.GET("/complaints", h.ListComplaints)
	r.GET("/complaints/track", h.TrackComplaint)
	r.GET("/complaints/stats", h.ComplaintStats)
	r.GET("/complaints/:id", h.GetComplaint)
	r.PATCH("/complaints/:id", h.UpdateComplaint)
	r.DELETE("/complaints/:id", h.DeleteComplaint)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateComplaint_ReturnsReceipt(t *testing.T) {
	var gotInput services.CreateComplaintInput
	svc := &stubComplaintSvc{
		createFn: func(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error) {
			gotInput = in
			return &domain.Complaint{ID: "cid-1", TrackingID: "K7MWP2XQ9R", Category: in.Category}, nil
		},
	}
	r := newComplaintRouter(svc)

	body := `{"title":"Pothole","description":"Big one","category":"roads","name":"Jane","email":"jane@example.com"}`
	w := doJSON(r, http.MethodPost, "/complaints", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201; body %s", w.Code, w.Body.String())
	}

	var resp CreateComplaintResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.ID != "cid-1" || resp.TrackingID != "K7MWP2XQ9R" {
		t.Fatalf("unexpected receipt: %+v", resp)
	}
	// Lowercase category normalizes before the service sees it.
	if gotInput.Category != domain.CategoryRoads {
		t.Fatalf("category = %q; want ROADS", gotInput.Category)
	}
}

func TestCreateComplaint_Errors(t *testing.T) {
	svc := &stubComplaintSvc{
		createFn: func(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error) {
			return nil, services.ErrInvalidInput
		},
	}
	r := newComplaintRouter(svc)

	// Malformed JSON → 400 before the service is reached.
	w := doJSON(r, http.MethodPost, "/complaints", `{"title":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d; want 400", w.Code)
	}

	// Missing required binding fields → 400.
	w = doJSON(r, http.MethodPost, "/complaints", `{"title":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status = %d; want 400", w.Code)
	}

	// Service-level validation → 400 with bad_request code.
	w = doJSON(r, http.MethodPost, "/complaints",
		`{"title":"x","description":"y","category":"NOPE","name":"n","email":"e@x.io"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), ErrCodeBadRequest) {
		t.Fatalf("service validation: status = %d body = %s", w.Code, w.Body.String())
	}

	// Unexpected failure → 500 create_failed.
	svc.createFn = func(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error) {
		return nil, errors.New("db gone")
	}
	w = doJSON(r, http.MethodPost, "/complaints",
		`{"title":"x","description":"y","category":"ROADS","name":"n","email":"e@x.io"}`)
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), ErrCodeCreateFailed) {
		t.Fatalf("internal: status = %d body = %s", w.Code, w.Body.String())
	}
}

// 500 envelopes carry a fixed message; store and driver error text stays in
// the server logs, never in the response body.
func TestInternalErrors_DoNotLeakCause(t *testing.T) {
	boom := errors.New("SQL logic error: no such table: complaints")
	svc := &stubComplaintSvc{
		createFn: func(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error) {
			return nil, boom
		},
		listFn: func(ctx context.Context, f repo.ComplaintFilter) ([]domain.Complaint, int64, error) {
			return nil, 0, boom
		},
		statsFn: func(ctx context.Context) (*repo.ComplaintStats, error) {
			return nil, boom
		},
	}
	r := newComplaintRouter(svc)

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodPost, "/complaints", `{"title":"x","description":"y","category":"ROADS","name":"n","email":"e@x.io"}`},
		{http.MethodGet, "/complaints", ""},
		{http.MethodGet, "/complaints/stats", ""},
	} {
		w := doJSON(r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: status = %d; want 500", tc.method, tc.path, w.Code)
		}
		body := w.Body.String()
		if strings.Contains(body, "SQL logic error") || strings.Contains(body, "no such table") {
			t.Fatalf("%s %s: driver error leaked to client: %s", tc.method, tc.path, body)
		}
		if !strings.Contains(body, `"message":"internal error"`) {
			t.Fatalf("%s %s: expected generic message, got %s", tc.method, tc.path, body)
		}
	}
}

func TestListComplaints_ClampsLimit(t *testing.T) {
	var gotFilter repo.ComplaintFilter
	svc := &stubComplaintSvc{
		listFn: func(ctx context.Context, f repo.ComplaintFilter) ([]domain.Complaint, int64, error) {
			gotFilter = f
			return []domain.Complaint{{ID: "a"}}, 1, nil
		},
	}
	r := newComplaintRouter(svc)

	if w := doJSON(r, http.MethodGet, "/complaints", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if gotFilter.Limit != 20 {
		t.Fatalf("default limit = %d; want 20", gotFilter.Limit)
	}

	doJSON(r, http.MethodGet, "/complaints?limit=5000", "")
	if gotFilter.Limit != 100 {
		t.Fatalf("clamped limit = %d; want 100", gotFilter.Limit)
	}

	doJSON(r, http.MethodGet, "/complaints?limit=-3", "")
	if gotFilter.Limit != 1 {
		t.Fatalf("negative limit = %d; want 1", gotFilter.Limit)
	}
}

func TestGetComplaint_NotFound(t *testing.T) {
	svc := &stubComplaintSvc{
		getFn: func(ctx context.Context, id string) (*domain.Complaint, error) {
			return nil, services.ErrComplaintNotFound
		},
	}
	r := newComplaintRouter(svc)

	w := doJSON(r, http.MethodGet, "/complaints/missing", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), ErrCodeNotFound) {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestTrackComplaint(t *testing.T) {
	svc := &stubComplaintSvc{
		lookupFn: func(ctx context.Context, trackingID string) (*domain.Complaint, error) {
			if trackingID == "K7MWP2XQ9R" {
				return &domain.Complaint{ID: "cid-1", TrackingID: "K7MWP2XQ9R"}, nil
			}
			return nil, services.ErrComplaintNotFound
		},
	}
	r := newComplaintRouter(svc)

	// Missing parameter → 400.
	w := doJSON(r, http.MethodGet, "/complaints/track", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing trackingId: status = %d; want 400", w.Code)
	}

	// Unknown → 404.
	w = doJSON(r, http.MethodGet, "/complaints/track?trackingId=ZZZZZZZZZZ", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown trackingId: status = %d; want 404", w.Code)
	}

	// Known → 200 with the complaint.
	w = doJSON(r, http.MethodGet, "/complaints/track?trackingId=K7MWP2XQ9R", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "K7MWP2XQ9R") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestUpdateComplaint_LegacyPatch(t *testing.T) {
	var gotPatch services.UpdatePatch
	svc := &stubComplaintSvc{
		updateFn: func(ctx context.Context, id string, patch services.UpdatePatch, responderID, responderName string) (*domain.Complaint, error) {
			gotPatch = patch
			return &domain.Complaint{ID: id, Status: patch.Status}, nil
		},
	}
	r := newComplaintRouter(svc)

	when := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	body := `{"status":"in_progress","response":"On it","responseDate":"2026-03-01T09:00:00Z"}`
	w := doJSON(r, http.MethodPatch, "/complaints/cid-1", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if gotPatch.Status != domain.StatusInProgress || gotPatch.Response != "On it" {
		t.Fatalf("unexpected patch: %+v", gotPatch)
	}
	if gotPatch.ResponseDate == nil || !gotPatch.ResponseDate.Equal(when) {
		t.Fatalf("responseDate not parsed: %v", gotPatch.ResponseDate)
	}
}

func TestDeleteComplaint(t *testing.T) {
	svc := &stubComplaintSvc{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "cid-1" {
				return nil
			}
			return services.ErrComplaintNotFound
		},
	}
	r := newComplaintRouter(svc)

	w := doJSON(r, http.MethodDelete, "/complaints/cid-1", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodDelete, "/complaints/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestComplaintStats(t *testing.T) {
	svc := &stubComplaintSvc{
		statsFn: func(ctx context.Context) (*repo.ComplaintStats, error) {
			return &repo.ComplaintStats{
				Total: 4, Pending: 2, InProgress: 1, Resolved: 1,
				Categories: []repo.CategoryCount{{Name: domain.CategoryRoads, Count: 3}},
			}, nil
		},
	}
	r := newComplaintRouter(svc)

	w := doJSON(r, http.MethodGet, "/complaints/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"total":4`) || !strings.Contains(body, `"name":"ROADS"`) {
		t.Fatalf("unexpected stats body: %s", body)
	}
}
