package requests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/backend/internal/models"
)

func validFacilitiesInput() CreateInput {
	return CreateInput{
		RequestType: models.RequestTypeFacilities,
		Title:       "Chairs for orientation",
		Facilities: &FacilitiesInput{
			EventName: "Fall Orientation",
			Location:  "Main Quad",
			EventDate: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*CreateInput)
		wantFields []string
	}{
		{
			name:   "valid facilities request",
			mutate: func(*CreateInput) {},
		},
		{
			name: "valid building request",
			mutate: func(in *CreateInput) {
				in.RequestType = models.RequestTypeBuilding
				in.Facilities = nil
			},
		},
		{
			name:       "missing title",
			mutate:     func(in *CreateInput) { in.Title = "   " },
			wantFields: []string{"title"},
		},
		{
			name:       "unknown request type",
			mutate:     func(in *CreateInput) { in.RequestType = "plumbing" },
			wantFields: []string{"request_type"},
		},
		{
			name:       "invalid priority",
			mutate:     func(in *CreateInput) { in.Priority = "asap" },
			wantFields: []string{"priority"},
		},
		{
			name:       "facilities payload required",
			mutate:     func(in *CreateInput) { in.Facilities = nil },
			wantFields: []string{"facilities"},
		},
		{
			name: "facilities payload missing everything",
			mutate: func(in *CreateInput) {
				in.Facilities = &FacilitiesInput{}
			},
			wantFields: []string{"facilities.event_name", "facilities.location", "facilities.event_date"},
		},
		{
			name: "facilities payload rejected on building request",
			mutate: func(in *CreateInput) {
				in.RequestType = models.RequestTypeBuilding
			},
			wantFields: []string{"facilities"},
		},
		{
			name: "all errors reported at once",
			mutate: func(in *CreateInput) {
				in.Title = ""
				in.Priority = "nope"
				in.Facilities.Location = ""
			},
			wantFields: []string{"title", "priority", "facilities.location"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFacilitiesInput()
			tt.mutate(&in)
			err := ValidateCreate(in)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			ve, ok := models.AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields, f)
			}
			assert.Len(t, ve.Fields, len(tt.wantFields))
		})
	}
}

func TestValidateBuildingDetail(t *testing.T) {
	assert.NoError(t, ValidateBuildingDetail(BuildingDetailInput{Building: "Science Hall", RoomNumber: "204"}))

	err := ValidateBuildingDetail(BuildingDetailInput{RoomNumber: "204"})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "building")
}
