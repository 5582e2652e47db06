package requests

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/campusfix/backend/internal/models"
)

// FacilitiesInput is the type-specific payload for facilities requests: item
// flags/quantities plus the event being supported.
type FacilitiesInput struct {
	EventName string          `json:"event_name"`
	Location  string          `json:"location"`
	EventDate time.Time       `json:"event_date"`
	Items     json.RawMessage `json:"items,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// CreateInput is the submission payload for a new request.
type CreateInput struct {
	RequestType models.RequestType `json:"request_type"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Priority    models.Priority    `json:"priority,omitempty"`
	Facilities  *FacilitiesInput   `json:"facilities,omitempty"`
}

// BuildingDetailInput is the payload for attaching a building detail record.
type BuildingDetailInput struct {
	Building    string `json:"building"`
	RoomNumber  string `json:"room_number,omitempty"`
	Description string `json:"description,omitempty"`
}

// ValidateCreate checks the type-specific required fields. Returns a
// ValidationError carrying every missing field.
func ValidateCreate(in CreateInput) error {
	fields := map[string]string{}
	if !in.RequestType.Valid() {
		fields["request_type"] = "must be facilities or building"
	}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "required"
	}
	if in.Priority != "" && !in.Priority.Valid() {
		fields["priority"] = "must be one of low, medium, high, urgent"
	}
	if in.RequestType == models.RequestTypeFacilities {
		if in.Facilities == nil {
			fields["facilities"] = "required for facilities requests"
		} else {
			if strings.TrimSpace(in.Facilities.EventName) == "" {
				fields["facilities.event_name"] = "required"
			}
			if strings.TrimSpace(in.Facilities.Location) == "" {
				fields["facilities.location"] = "required"
			}
			if in.Facilities.EventDate.IsZero() {
				fields["facilities.event_date"] = "required"
			}
		}
	}
	if in.RequestType == models.RequestTypeBuilding && in.Facilities != nil {
		fields["facilities"] = "not allowed for building requests"
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateBuildingDetail checks the building detail required fields.
func ValidateBuildingDetail(in BuildingDetailInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Building) == "" {
		fields["building"] = "required"
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}
