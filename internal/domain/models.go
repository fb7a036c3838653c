// Package domain defines the persistence models for complaints, their
// timeline events, agency responses, attachments, and portal users. These
// types are mapped with GORM and form the core data layer of the complaint
// portal application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Complaint represents a citizen-submitted grievance. Each complaint is
// addressed by a public tracking identifier, routed to an agency, and walks
// a four-state status lifecycle.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - TrackingID: short uppercase alphanumeric token, unique, assigned once
//     at creation and immutable thereafter. This is the sole public lookup key.
//   - Title / Description: citizen-provided summary and free text.
//   - Category / Agency: enumerated classification and responsible department.
//   - Location / Phone: optional context supplied at intake.
//   - Name / Email: submitter identity (not necessarily a registered user).
//   - UserID: optional link to a registered User account.
//   - Status: PENDING, IN_PROGRESS, RESOLVED, or REJECTED (PENDING on create).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Complaint struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	TrackingID  string         `json:"trackingId"  gorm:"type:varchar(16);not null;uniqueIndex:ux_complaint_tracking"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Category    Category       `json:"category"    gorm:"type:varchar(32);not null;index"`
	Agency      Agency         `json:"agency"      gorm:"type:varchar(32);not null;index"`
	Location    string         `json:"location,omitempty" gorm:"type:varchar(255)"`
	Name        string         `json:"name"        gorm:"type:varchar(128);not null"`
	Email       string         `json:"email"       gorm:"type:varchar(255);not null"`
	Phone       string         `json:"phone,omitempty" gorm:"type:varchar(32)"`
	UserID      *string        `json:"userId,omitempty" gorm:"type:char(36);index"`
	Status      Status         `json:"status"      gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Associations are preloaded for detail and tracking views.
	Timeline    []TimelineEvent `json:"timeline,omitempty"    gorm:"foreignKey:ComplaintID"`
	Responses   []Response      `json:"responses,omitempty"   gorm:"foreignKey:ComplaintID"`
	Attachments []Attachment    `json:"attachments,omitempty" gorm:"foreignKey:ComplaintID"`
}

// TableName returns the database table name for Complaint.
func (Complaint) TableName() string { return "complaints" }

// TimelineEvent is an immutable, append-only record of a status value plus
// an optional note. Exactly one event is written per status transition, and
// one initial PENDING event is written together with the complaint itself.
// Events are never mutated or deleted, so their chronological order is the
// causal order of transitions.
type TimelineEvent struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ComplaintID string    `json:"complaintId" gorm:"type:char(36);not null;index:idx_complaint_events,priority:1"`
	Status      Status    `json:"status"      gorm:"type:varchar(16);not null"`
	Note        string    `json:"note,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"index:idx_complaint_events,priority:2"`

	// Complaint is the owning record. Events are cascade-deleted with it.
	Complaint Complaint `json:"-" gorm:"foreignKey:ComplaintID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TimelineEvent.
func (TimelineEvent) TableName() string { return "timeline_events" }

// Response is a message posted by an identified staff principal on a
// complaint. Responses are append-only and never edited after creation.
// Posting a response does not change the complaint status; that is a
// separate transition.
type Response struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	ComplaintID   string    `json:"complaintId"   gorm:"type:char(36);not null;index"`
	ResponderID   string    `json:"responderId"   gorm:"type:varchar(64);not null"`
	ResponderName string    `json:"responderName" gorm:"type:varchar(128)"`
	Message       string    `json:"message"       gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"createdAt"`

	Complaint Complaint `json:"-" gorm:"foreignKey:ComplaintID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Response.
func (Response) TableName() string { return "responses" }

// Attachment records a file submitted with a complaint: a display filename
// and a retrievable URL. The binary itself lives in external storage; rows
// are written at intake time and read-only afterward.
type Attachment struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ComplaintID string    `json:"complaintId" gorm:"type:char(36);not null;index"`
	Filename    string    `json:"filename"    gorm:"type:varchar(255);not null"`
	URL         string    `json:"url"         gorm:"type:varchar(1024);not null"`
	CreatedAt   time.Time `json:"createdAt"`

	Complaint Complaint `json:"-" gorm:"foreignKey:ComplaintID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Attachment.
func (Attachment) TableName() string { return "attachments" }

// User is an identity record for the portal. Self-registration always
// produces role USER; ADMIN accounts are provisioned out of band (see
// cmd/create-admin). PasswordHash is a bcrypt digest and is never
// serialized to JSON.
type User struct {
	ID           string         `json:"id"    gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"  gorm:"type:varchar(128);not null"`
	Email        string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_user_email"`
	PasswordHash string         `json:"-"     gorm:"type:varchar(128);not null"`
	Role         Role           `json:"role"  gorm:"type:varchar(16);not null;default:'USER'"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-"     gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
