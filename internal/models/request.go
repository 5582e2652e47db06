package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RequestType tags a request as facilities (event/labor) or building (room repair).
// Immutable after creation; determines which detail record exists.
type RequestType string

const (
	RequestTypeFacilities RequestType = "facilities"
	RequestTypeBuilding   RequestType = "building"
)

// Valid reports whether the request type is known.
func (t RequestType) Valid() bool {
	return t == RequestTypeFacilities || t == RequestTypeBuilding
}

// Priority of a request, independent of its lifecycle status.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is known.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Request is a facility/maintenance service ticket. Status mirrors the most
// recent StatusUpdate row; EventSeq is the per-request counter handed out to
// log rows for deterministic timeline ordering.
type Request struct {
	ID             uuid.UUID   `json:"id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	RequestType    RequestType `json:"request_type"`
	RequestorID    uuid.UUID   `json:"requestor_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Status         string      `json:"status"`
	Priority       Priority    `json:"priority"`
	EventSeq       int64       `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// FacilitiesDetail is the 1:1 detail record for a facilities-type request.
// Items holds item flags and quantities as submitted (e.g. {"chairs": 40}).
type FacilitiesDetail struct {
	RequestID uuid.UUID       `json:"request_id"`
	EventName string          `json:"event_name"`
	Location  string          `json:"location"`
	EventDate time.Time       `json:"event_date"`
	Items     json.RawMessage `json:"items,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// BuildingDetail is the 1:1 detail record for a building-type request.
type BuildingDetail struct {
	RequestID   uuid.UUID `json:"request_id"`
	Building    string    `json:"building"`
	RoomNumber  string    `json:"room_number"`
	Description string    `json:"description"`
}

// StatusUpdate is one append-only row of the status audit trail. Seq is the
// position in the request's event sequence, assigned at write time.
type StatusUpdate struct {
	ID        uuid.UUID `json:"id"`
	RequestID uuid.UUID `json:"request_id"`
	Seq       int64     `json:"seq"`
	Status    string    `json:"status"`
	ActorID   uuid.UUID `json:"actor_id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment is one append-only row of the assignment log. Reassignment adds
// a new row; the current assignee is the row with the highest seq.
type Assignment struct {
	ID         uuid.UUID `json:"id"`
	RequestID  uuid.UUID `json:"request_id"`
	Seq        int64     `json:"seq"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	AssignerID uuid.UUID `json:"assigner_id"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message is free-text communication tied to a request.
type Message struct {
	ID        uuid.UUID `json:"id"`
	RequestID uuid.UUID `json:"request_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestPhoto is photo metadata only; the binary lives in the blob store.
type RequestPhoto struct {
	ID          uuid.UUID `json:"id"`
	RequestID   uuid.UUID `json:"request_id"`
	FileName    string    `json:"file_name"`
	S3Key       string    `json:"s3_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
