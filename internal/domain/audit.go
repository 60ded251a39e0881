package domain

import (
	"encoding/json"
	"time"
)

// AuditEntry is one recorded team or city mutation.
type AuditEntry struct {
	ID         string          `json:"id"`
	EventType  string          `json:"eventType"`
	TeamID     *int64          `json:"teamId,omitempty"`
	EmployeeID *int64          `json:"employeeId,omitempty"`
	ActorID    int64           `json:"actorId"`
	ActorRole  RoleTag         `json:"actorRole"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}
