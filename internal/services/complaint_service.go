// Package services – ComplaintService
//
// This file implements the ComplaintService, the lifecycle authority for
// complaints. It owns the rules under which a complaint is created (field
// validation, tracking-ID assignment, atomic initial timeline event),
// transitioned between statuses (one appended TimelineEvent per change),
// and responded to, plus the read paths: tracking lookup, filtered listing,
// and aggregate statistics. Service-level errors (e.g. ErrInvalidInput,
// ErrComplaintNotFound) are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
	"github.com/civicdesk/go-complaint-backend/internal/repo"
)

// emailRE is a pragmatic well-formedness check, not a full RFC 5322 parser.
var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// trackingIDRetries bounds collision retries during token generation.
// With a 31^10 identifier space a single retry is already rare.
const trackingIDRetries = 5

// ComplaintService implements the complaint lifecycle use-cases. It is
// context-aware, holds no state between calls beyond the injected DB
// handle, and opens its own transaction wherever two writes must land
// atomically (complaint + initial event, status + transition event).
type ComplaintService struct {
	// DB is the database handle used for all complaint operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB

	// TrackingIDLength overrides the generated token length when > 0.
	TrackingIDLength int
}

// CreateComplaintInput is the explicit, validated shape of an intake
// submission. Location and Phone are optional; everything else is required.
// Agency may be left empty, in which case the category's default handling
// agency is assigned.
type CreateComplaintInput struct {
	Title       string
	Description string
	Category    domain.Category
	Agency      domain.Agency
	Location    string
	Name        string
	Email       string
	Phone       string
	// UserID optionally links the complaint to a registered account.
	UserID string
	// Attachments carries metadata for files already uploaded to external
	// storage.
	Attachments []domain.Attachment
}

// validate checks every required intake field and enum membership. It
// returns an ErrInvalidInput-wrapping error naming the offending field, so
// the boundary can surface field-level detail without persisting anything.
func (in *CreateComplaintInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalidf("title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalidf("description is required")
	}
	if !in.Category.Valid() {
		return invalidf("category %q is not a known category", in.Category)
	}
	if in.Agency != "" && !in.Agency.Valid() {
		return invalidf("agency %q is not a known agency", in.Agency)
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("name is required")
	}
	if !emailRE.MatchString(strings.TrimSpace(in.Email)) {
		return invalidf("email %q is not well-formed", in.Email)
	}
	return nil
}

// Create validates the submission, allocates a unique tracking identifier,
// and persists the complaint (status PENDING) together with its initial
// PENDING timeline event and any attachment rows in one transaction, so no
// complaint can exist without a timeline entry.
//
// Returns the persisted complaint carrying its internal ID and tracking
// identifier. Validation failures return ErrInvalidInput-wrapping errors
// before any store access.
func (s *ComplaintService) Create(ctx context.Context, in CreateComplaintInput) (*domain.Complaint, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	agency := in.Agency
	if agency == "" {
		agency = domain.AgencyForCategory(in.Category)
	}

	c := &domain.Complaint{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Agency:      agency,
		Location:    strings.TrimSpace(in.Location),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Status:      domain.StatusPending,
		Attachments: in.Attachments,
	}
	if uid := strings.TrimSpace(in.UserID); uid != "" {
		c.UserID = &uid
	}

	// Allocate a token, retrying on the (unlikely) collision. The unique
	// index remains the final arbiter inside the transaction.
	for attempt := 0; ; attempt++ {
		tid, err := newTrackingID(s.TrackingIDLength)
		if err != nil {
			return nil, err
		}
		exists, err := repo.TrackingIDExists(ctx, s.DB, tid)
		if err != nil {
			return nil, err
		}
		if !exists {
			c.TrackingID = tid
			break
		}
		if attempt >= trackingIDRetries {
			return nil, ErrTrackingIDExhausted
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateComplaint(ctx, tx, c); err != nil {
			return err
		}
		ev, err := repo.AppendTimelineEvent(ctx, tx, c.ID, domain.StatusPending, "")
		if err != nil {
			return err
		}
		c.Timeline = []domain.TimelineEvent{*ev}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Transition moves an existing complaint to newStatus and appends the
// corresponding TimelineEvent (with the optional note) atomically. Any of
// the four statuses is accepted as a target; the admin surface narrows the
// offered transitions, but that is a UI convenience, not a store invariant.
//
// Returns the updated complaint with associations. Errors:
// ErrInvalidStatus for values outside the enumeration, ErrComplaintNotFound
// when id is unknown.
func (s *ComplaintService) Transition(ctx context.Context, id string, newStatus domain.Status, note string) (*domain.Complaint, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdateComplaintStatus(ctx, tx, id, newStatus); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}
		_, err := repo.AppendTimelineEvent(ctx, tx, id, newStatus, strings.TrimSpace(note))
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Respond appends a staff response to an existing complaint. It never
// touches the status; pairing a response with a transition is the caller's
// (typically the admin UI's) concern. Errors: ErrEmptyMessage,
// ErrComplaintNotFound.
func (s *ComplaintService) Respond(ctx context.Context, id, responderID, responderName, message string) (*domain.Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := repo.GetComplaint(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return repo.CreateResponse(ctx, s.DB, id, responderID, responderName, message)
}

// Get fetches a complaint by internal ID with timeline, responses, and
// attachments. Returns ErrComplaintNotFound when absent.
func (s *ComplaintService) Get(ctx context.Context, id string) (*domain.Complaint, error) {
	c, err := repo.GetComplaint(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return c, nil
}

// Lookup resolves a public tracking identifier to its complaint. Input is
// trimmed and upper-cased before matching, since identifiers are stored
// uppercase; citizens pasting a lowercase token still get a hit.
func (s *ComplaintService) Lookup(ctx context.Context, trackingID string) (*domain.Complaint, error) {
	trackingID = strings.ToUpper(strings.TrimSpace(trackingID))
	if trackingID == "" {
		return nil, invalidf("trackingId is required")
	}
	c, err := repo.GetComplaintByTrackingID(ctx, s.DB, trackingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns complaints matching f, newest-first, along with the total
// count ignoring Limit/Offset (for pagination metadata).
func (s *ComplaintService) List(ctx context.Context, f repo.ComplaintFilter) ([]domain.Complaint, int64, error) {
	total, err := repo.CountComplaints(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Complaint{}, 0, nil
	}
	items, err := repo.ListComplaints(ctx, s.DB, f)
	return items, total, err
}

// Delete soft-deletes a complaint. Returns ErrComplaintNotFound when id is
// unknown.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteComplaint(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		return err
	}
	return nil
}

// Stats returns the aggregate complaint statistics, computed from the
// store at call time with no caching, so the effect of a Transition is
// visible in the immediately following call.
func (s *ComplaintService) Stats(ctx context.Context) (*repo.ComplaintStats, error) {
	return repo.GetComplaintStats(ctx, s.DB)
}

// UpdatePatch is the legacy single-shot update accepted by the original
// PATCH endpoint: an optional status change and an optional response text
// with its timestamp.
type UpdatePatch struct {
	Status       domain.Status
	Response     string
	ResponseDate *time.Time
}

// Update applies a legacy patch. A supplied status runs through Transition
// semantics (timeline event included); supplied response text is converted
// into an appended Response record attributed to the given principal (the
// Response collection is the canonical representation; no single-field
// response column exists). Either part may be absent; an empty patch is
// rejected as ErrInvalidInput.
func (s *ComplaintService) Update(ctx context.Context, id string, patch UpdatePatch, responderID, responderName string) (*domain.Complaint, error) {
	if patch.Status == "" && strings.TrimSpace(patch.Response) == "" {
		return nil, invalidf("nothing to update")
	}
	if patch.Status != "" {
		if _, err := s.Transition(ctx, id, patch.Status, ""); err != nil {
			return nil, err
		}
	}
	if msg := strings.TrimSpace(patch.Response); msg != "" {
		if responderID == "" {
			responderID = "system"
		}
		r, err := s.Respond(ctx, id, responderID, responderName, msg)
		if err != nil {
			return nil, err
		}
		if patch.ResponseDate != nil {
			// Honor the caller-supplied legacy timestamp.
			err = s.DB.WithContext(ctx).
				Model(&domain.Response{}).
				Where("id = ?", r.ID).
				Update("created_at", patch.ResponseDate.UTC()).Error
			if err != nil {
				return nil, err
			}
		}
	}
	return s.Get(ctx, id)
}
