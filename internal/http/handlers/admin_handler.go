// Admin HTTP handlers.
//
// This file exposes the staff-only endpoints registered behind the
// Authenticate + RequireAdmin middleware pair:
//   - GET    /admin/complaints                 (filtered, paginated list)
//   - GET    /admin/complaints/{id}            (fetch one)
//   - PATCH  /admin/complaints/{id}/status     (lifecycle transition)
//   - POST   /admin/complaints/{id}/responses  (append a staff response)
//   - DELETE /admin/complaints/{id}            (remove)
//   - GET    /admin/stats                      (aggregate statistics)
//
// List filters compose with AND semantics: status, category, agency, a
// free-text search over title/description/location/tracking ID, and a
// created-at range bucket (today/week/month/year).
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
	"github.com/civicdesk/go-complaint-backend/internal/http/middleware"
	"github.com/civicdesk/go-complaint-backend/internal/repo"
)

//
// DTOs
//

// TransitionRequest is the payload for a lifecycle transition. Note is an
// optional annotation recorded on the resulting timeline event.
type TransitionRequest struct {
	Status string `json:"status" binding:"required" example:"IN_PROGRESS"`
	Note   string `json:"note" example:"Crew assigned, ETA Thursday"`
}

// RespondRequest is the payload for appending a staff response.
type RespondRequest struct {
	Message string `json:"message" binding:"required" example:"A crew has been dispatched."`
}

//
// Helpers
//

// adminFilter parses the admin list query parameters into a repo filter.
// Unknown enum values are rejected so typos surface as 400s instead of
// silently matching nothing.
func adminFilter(c *gin.Context) (repo.ComplaintFilter, bool) {
	var f repo.ComplaintFilter

	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		f.Status = domain.Status(s)
		if !f.Status.Valid() {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status filter")
			return f, false
		}
	}
	if s := strings.ToUpper(strings.TrimSpace(c.Query("category"))); s != "" {
		f.Category = domain.Category(s)
		if !f.Category.Valid() {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown category filter")
			return f, false
		}
	}
	if s := strings.ToUpper(strings.TrimSpace(c.Query("agency"))); s != "" {
		f.Agency = domain.Agency(s)
		if !f.Agency.Valid() {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown agency filter")
			return f, false
		}
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("range"))); s != "" {
		switch repo.DateRange(s) {
		case repo.RangeToday, repo.RangeWeek, repo.RangeMonth, repo.RangeYear:
			f.Range = repo.DateRange(s)
		default:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown range filter (today|week|month|year)")
			return f, false
		}
	}
	f.Search = strings.TrimSpace(c.Query("q"))

	page, pageSize := clampPagination(c)
	f.Offset = (page - 1) * pageSize
	f.Limit = pageSize
	return f, true
}

//
// Handlers
//

// AdminListComplaints godoc
// @ID          adminListComplaints
// @Summary     List complaints (staff)
// @Description Returns a filtered, paginated page of complaints, newest first. Filters compose with AND semantics.
// @Tags        Admin
// @Produce     json
// @Security    BearerAuth
//
// @Param       status     query  string  false  "Status filter"    Enums(PENDING, IN_PROGRESS, RESOLVED, REJECTED)
// @Param       category   query  string  false  "Category filter"
// @Param       agency     query  string  false  "Agency filter"
// @Param       q          query  string  false  "Free-text search over title, description, location, tracking ID"
// @Param       range      query  string  false  "Created-at bucket"  Enums(today, week, month, year)
// @Param       page       query  int     false  "Page number"        minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"     minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListComplaintsResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse "Forbidden"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/complaints [get]
func (h *Handlers) AdminListComplaints(c *gin.Context) {
	f, okf := adminFilter(c)
	if !okf {
		return
	}

	items, total, err := h.complaintSvc.List(c.Request.Context(), f)
	if err != nil {
		failInternal(c, ErrCodeListFailed, err)
		return
	}

	pageSize := f.Limit
	page := f.Offset/pageSize + 1
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListComplaintsResponse{
		Complaints: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// TransitionComplaint godoc
// @ID          transitionComplaint
// @Summary     Transition a complaint's status
// @Description Moves a complaint to a new lifecycle status and appends a timeline event carrying the optional note.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Complaint ID"
// @Param       body  body  handlers.TransitionRequest  true  "Transition payload"
//
// @Success     200  {object}  domain.Complaint
// @Failure     400  {object}  handlers.ErrorResponse "Unknown status"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/complaints/{id}/status [patch]
func (h *Handlers) TransitionComplaint(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status is required")
		return
	}

	status := domain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	cp, err := h.complaintSvc.Transition(c.Request.Context(), c.Param("id"), status, req.Note)
	if err != nil {
		failService(c, err, ErrCodeUpdateFailed)
		return
	}
	middleware.RecordStatusTransition(string(status))
	ok(c, http.StatusOK, cp)
}

// RespondToComplaint godoc
// @ID          respondToComplaint
// @Summary     Append a staff response
// @Description Appends a response record attributed to the authenticated staff member. The complaint's status is not changed.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Complaint ID"
// @Param       body  body  handlers.RespondRequest  true  "Response payload"
//
// @Success     201  {object}  domain.Response
// @Failure     400  {object}  handlers.ErrorResponse "Empty message"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/complaints/{id}/responses [post]
func (h *Handlers) RespondToComplaint(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}

	uid, uname := principal(c)
	r, err := h.complaintSvc.Respond(c.Request.Context(), c.Param("id"), uid, uname, req.Message)
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, r)
}

// AdminDeleteComplaint godoc
// @ID          adminDeleteComplaint
// @Summary     Remove a complaint (staff)
// @Description Soft-deletes a complaint. Unlike the public withdrawal route, the staff variant answers 204 with no body.
// @Tags        Admin
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Complaint ID"
//
// @Success     204  "Deleted"
// @Failure     404  {object}  handlers.ErrorResponse "Not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/complaints/{id} [delete]
func (h *Handlers) AdminDeleteComplaint(c *gin.Context) {
	if err := h.complaintSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}
