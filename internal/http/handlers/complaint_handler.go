// Complaint HTTP handlers (public surface).
//
// This file exposes the citizen-facing REST endpoints:
//   - POST   /complaints            (file a complaint, idempotency-aware)
//   - GET    /complaints            (recent complaints, ?limit)
//   - GET    /complaints/track      (tracking lookup, ?trackingId)
//   - GET    /complaints/stats      (aggregate statistics)
//   - GET    /complaints/{id}       (fetch one, with timeline and responses)
//   - PATCH  /complaints/{id}       (legacy combined status/response patch)
//   - DELETE /complaints/{id}       (withdraw)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
	"github.com/civicdesk/go-complaint-backend/internal/http/middleware"
	"github.com/civicdesk/go-complaint-backend/internal/repo"
	"github.com/civicdesk/go-complaint-backend/internal/services"
	"github.com/civicdesk/go-complaint-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ComplaintService defines the complaint lifecycle operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ComplaintService interface {
	// Create validates and files a new complaint with a fresh tracking ID.
	Create(ctx context.Context, in services.CreateComplaintInput) (*domain.Complaint, error)
	// Get returns a complaint by internal ID with timeline and responses.
	Get(ctx context.Context, id string) (*domain.Complaint, error)
	// Lookup resolves a citizen-facing tracking ID.
	Lookup(ctx context.Context, trackingID string) (*domain.Complaint, error)
	// List returns a filtered page of complaints plus the unpaged total.
	List(ctx context.Context, f repo.ComplaintFilter) ([]domain.Complaint, int64, error)
	// Transition moves a complaint to a new status, appending a timeline event.
	Transition(ctx context.Context, id string, status domain.Status, note string) (*domain.Complaint, error)
	// Respond appends a staff response without touching the status.
	Respond(ctx context.Context, id, responderID, responderName, message string) (*domain.Response, error)
	// Update applies the legacy combined patch.
	Update(ctx context.Context, id string, patch services.UpdatePatch, responderID, responderName string) (*domain.Complaint, error)
	// Delete withdraws (soft-deletes) a complaint.
	Delete(ctx context.Context, id string) error
	// Stats returns aggregate complaint statistics.
	Stats(ctx context.Context) (*repo.ComplaintStats, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for complaints and authentication.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic. The optional DB handle powers idempotent
// submission replays; when nil, Idempotency-Key headers are accepted but
// receipts are not persisted.
type Handlers struct {
	complaintSvc ComplaintService
	authSvc      AuthService

	db      *gorm.DB
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given services. db and
// idemTTL configure idempotent submission receipts; pass nil/0 to disable.
func New(complaintSvc ComplaintService, authSvc AuthService, db *gorm.DB, idemTTL time.Duration) *Handlers {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &Handlers{complaintSvc: complaintSvc, authSvc: authSvc, db: db, idemTTL: idemTTL}
}

// principal extracts the authenticated user's ID and display name from the
// Gin context (set by the auth middleware). Both are empty for anonymous
// requests.
func principal(c *gin.Context) (id, name string) {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		id, _ = v.(string)
	}
	if v, ok := c.Get(middleware.ContextUserNameKey); ok {
		name, _ = v.(string)
	}
	return id, name
}

//
// DTOs
//

// AttachmentRequest carries metadata for a file already uploaded to the
// external object store. The API never receives file bytes.
type AttachmentRequest struct {
	Filename string `json:"filename" binding:"required" example:"pothole.jpg"`
	URL      string `json:"url" binding:"required,url" example:"https://files.example.org/u/abc123"`
}

// CreateComplaintRequest is the JSON payload for filing a complaint.
type CreateComplaintRequest struct {
	Title       string              `json:"title" binding:"required,max=200" example:"Pothole on Main St"`
	Description string              `json:"description" binding:"required" example:"Large pothole near the intersection of Main and 2nd."`
	Category    string              `json:"category" binding:"required" example:"ROADS"`
	Agency      string              `json:"agency" example:"PUBLIC_WORKS"`
	Location    string              `json:"location" example:"Main St & 2nd Ave"`
	Name        string              `json:"name" binding:"required" example:"Jane Doe"`
	Email       string              `json:"email" binding:"required" example:"jane@example.com"`
	Phone       string              `json:"phone" example:"+1 212 555 0100"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// CreateComplaintResponse is the receipt returned after filing: the internal
// record ID and the citizen-facing tracking ID.
type CreateComplaintResponse struct {
	ID         string `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	TrackingID string `json:"trackingId" example:"K7MWP2XQ9R"`
}

// UpdateComplaintRequest is the legacy combined patch payload. Status and
// Response are each optional but at least one must be present. ResponseDate
// optionally backdates the response record (RFC 3339).
type UpdateComplaintRequest struct {
	Status       string     `json:"status" example:"IN_PROGRESS"`
	Response     string     `json:"response" example:"A crew has been dispatched."`
	ResponseDate *time.Time `json:"responseDate" example:"2026-03-01T09:00:00Z"`
}

// DeleteComplaintResponse acknowledges a withdrawal.
type DeleteComplaintResponse struct {
	Success bool `json:"success" example:"true"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListComplaintsResponse wraps a page of complaints and pagination information.
type ListComplaintsResponse struct {
	Complaints []domain.Complaint `json:"complaints"`
	Pagination Pagination         `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// failService maps service-layer sentinel errors onto the HTTP error
// envelope. fallbackCode is used for unexpected (5xx) failures.
func failService(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrComplaintNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "complaint not found")
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status")
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		failInternal(c, fallbackCode, err)
	}
}

//
// Handlers
//

// CreateComplaint godoc
// @ID          createComplaint
// @Summary     File a new complaint
// @Description Files a complaint and returns its internal ID and tracking ID. Supports Idempotency-Key for safe retries: a repeated key replays the original receipt instead of filing twice.
// @Tags        Complaints
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Client-chosen key for safe retries"
// @Param       body             body    handlers.CreateComplaintRequest  true  "Complaint payload"
//
// @Success     200  {object}  handlers.CreateComplaintResponse "Replayed receipt"
// @Success     201  {object}  handlers.CreateComplaintResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /complaints [post]
func (h *Handlers) CreateComplaint(c *gin.Context) {
	ctx := c.Request.Context()

	// Replay: the validator flagged a previously completed submission for
	// this (client, key) pair. Re-serve the stored receipt; a 200 (not 201)
	// signals no new complaint was filed.
	if middleware.IsReplay(c) && h.db != nil {
		if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
			rec, err := repo.GetIdempotency(ctx, h.db, middleware.ClientID(c), key, time.Now().UTC())
			if err == nil {
				ok(c, http.StatusOK, CreateComplaintResponse{ID: rec.ComplaintID, TrackingID: rec.TrackingID})
				return
			}
			// Record expired between lookup and now; fall through and file fresh.
		}
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	uid, _ := principal(c)
	in := services.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(strings.ToUpper(strings.TrimSpace(req.Category))),
		Agency:      domain.Agency(strings.ToUpper(strings.TrimSpace(req.Agency))),
		Location:    req.Location,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		UserID:      uid,
	}
	for _, a := range req.Attachments {
		in.Attachments = append(in.Attachments, domain.Attachment{Filename: a.Filename, URL: a.URL})
	}

	cp, err := h.complaintSvc.Create(ctx, in)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}

	middleware.RecordComplaintSubmitted(string(cp.Category))

	// Persist the receipt so a retry with the same key replays instead of
	// filing twice. Best effort: losing the receipt only costs idempotency,
	// not the complaint.
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey && h.db != nil {
		_, _ = repo.CreateIdempotency(ctx, h.db, middleware.ClientID(c), key,
			cp.ID, cp.TrackingID, http.StatusCreated, h.idemTTL)
	}

	ok(c, http.StatusCreated, CreateComplaintResponse{ID: cp.ID, TrackingID: cp.TrackingID})
}

// ListComplaints godoc
// @ID          listComplaints
// @Summary     List recent complaints
// @Description Returns the most recently filed complaints, newest first.
// @Tags        Complaints
// @Produce     json
//
// @Param       limit  query  int  false  "Maximum number of complaints"  minimum(1) maximum(100) default(20)
//
// @Success     200  {array}   domain.Complaint
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /complaints [get]
func (h *Handlers) ListComplaints(c *gin.Context) {
	limit := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), 20), 1, 100)

	items, _, err := h.complaintSvc.List(c.Request.Context(), repo.ComplaintFilter{Limit: limit})
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetComplaint godoc
// @ID          getComplaint
// @Summary     Fetch a complaint
// @Description Returns a complaint by internal ID, including its timeline events and responses.
// @Tags        Complaints
// @Produce     json
//
// @Param       id  path  string  true  "Complaint ID"
//
// @Success     200  {object}  domain.Complaint
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /complaints/{id} [get]
func (h *Handlers) GetComplaint(c *gin.Context) {
	cp, err := h.complaintSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, cp)
}

// UpdateComplaint godoc
// @ID          updateComplaint
// @Summary     Patch a complaint (legacy)
// @Description Legacy combined patch: optionally sets the status (with a timeline event) and/or appends a response record. At least one of status/response is required.
// @Tags        Complaints
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Complaint ID"
// @Param       body  body  handlers.UpdateComplaintRequest  true  "Patch payload"
//
// @Success     200  {object}  domain.Complaint
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /complaints/{id} [patch]
func (h *Handlers) UpdateComplaint(c *gin.Context) {
	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	uid, uname := principal(c)
	patch := services.UpdatePatch{
		Status:       domain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		Response:     req.Response,
		ResponseDate: req.ResponseDate,
	}
	cp, err := h.complaintSvc.Update(c.Request.Context(), c.Param("id"), patch, uid, uname)
	if err != nil {
		failService(c, err, ErrCodeUpdateFailed)
		return
	}
	if patch.Status != "" {
		middleware.RecordStatusTransition(string(patch.Status))
	}
	ok(c, http.StatusOK, cp)
}

// DeleteComplaint godoc
// @ID          deleteComplaint
// @Summary     Withdraw a complaint
// @Description Soft-deletes a complaint. The record is retained for audit but excluded from all reads.
// @Tags        Complaints
// @Produce     json
//
// @Param       id  path  string  true  "Complaint ID"
//
// @Success     200  {object}  handlers.DeleteComplaintResponse
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /complaints/{id} [delete]
func (h *Handlers) DeleteComplaint(c *gin.Context) {
	if err := h.complaintSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, DeleteComplaintResponse{Success: true})
}

// TrackComplaint godoc
// @ID          trackComplaint
// @Summary     Track a complaint by tracking ID
// @Description Looks up a complaint by its citizen-facing tracking ID. The match is case-insensitive.
// @Tags        Complaints
// @Produce     json
//
// @Param       trackingId  query  string  true  "Tracking ID from the filing receipt"  example(K7MWP2XQ9R)
//
// @Success     200  {object}  domain.Complaint
// @Failure     400  {object}  handlers.ErrorResponse "Missing trackingId"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown tracking ID"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /complaints/track [get]
func (h *Handlers) TrackComplaint(c *gin.Context) {
	tid := strings.TrimSpace(c.Query("trackingId"))
	if tid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "trackingId query parameter is required")
		return
	}

	cp, err := h.complaintSvc.Lookup(c.Request.Context(), tid)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, cp)
}

// ComplaintStats godoc
// @ID          complaintStats
// @Summary     Aggregate complaint statistics
// @Description Returns the total complaint count, per-status counts, and per-category counts sorted descending.
// @Tags        Complaints
// @Produce     json
//
// @Success     200  {object}  repo.ComplaintStats
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /complaints/stats [get]
func (h *Handlers) ComplaintStats(c *gin.Context) {
	stats, err := h.complaintSvc.Stats(c.Request.Context())
	if err != nil {
		failInternal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
