package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTeamCreated          EventType = "team_created"
	EventAvpAssigned          EventType = "avp_assigned"
	EventFieldOfficersAdded   EventType = "field_officers_added"
	EventFieldOfficersRemoved EventType = "field_officers_removed"
	EventTeamDeleted          EventType = "team_deleted"
	EventCityAssigned         EventType = "city_assigned"
	EventCityRemoved          EventType = "city_removed"
)

// AllEventTypes lists every type a subscriber may want to follow.
var AllEventTypes = []EventType{
	EventTeamCreated,
	EventAvpAssigned,
	EventFieldOfficersAdded,
	EventFieldOfficersRemoved,
	EventTeamDeleted,
	EventCityAssigned,
	EventCityRemoved,
}

// Actor is the employee who triggered the event.
type Actor struct {
	EmployeeID int64          `json:"employee_id"`
	Role       domain.RoleTag `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TeamID     int64       `json:"team_id,omitempty"`
	EmployeeID int64       `json:"employee_id,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(eventType EventType, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TeamCreatedPayload payload.
type TeamCreatedPayload struct {
	OfficeManagerID int64           `json:"office_manager_id"`
	FieldOfficerIDs []int64         `json:"field_officer_ids"`
	TeamType        domain.TeamType `json:"team_type"`
	// FromPlaceholder is set when the team was materialized for an AVP assignment.
	FromPlaceholder bool `json:"from_placeholder,omitempty"`
}

// AvpAssignedPayload payload.
type AvpAssignedPayload struct {
	AvpID int64 `json:"avp_id"`
}

// RosterChangedPayload payload for added and removed field officers.
type RosterChangedPayload struct {
	FieldOfficerIDs []int64 `json:"field_officer_ids"`
}

// CityChangedPayload payload for assigned and removed cities.
type CityChangedPayload struct {
	City string `json:"city"`
}
