package domain

import (
	"fmt"
	"math"
)

// TeamType classifies a team.
type TeamType string

const (
	TeamTypeCoordinator     TeamType = "COORDINATOR_TEAM"
	TeamTypeRegionalManager TeamType = "REGIONAL_MANAGER_TEAM"
	TeamTypeAvp             TeamType = "AVP_TEAM"
)

// ParseTeamType accepts the canonical values case-insensitively.
func ParseTeamType(raw string) (TeamType, bool) {
	switch canonicalRoleKey(raw) {
	case string(TeamTypeCoordinator), "COORDINATOR":
		return TeamTypeCoordinator, true
	case string(TeamTypeRegionalManager), "REGIONAL_MANAGER", "REGIONAL":
		return TeamTypeRegionalManager, true
	case string(TeamTypeAvp), "AVP":
		return TeamTypeAvp, true
	default:
		return "", false
	}
}

// Category returns the assignment pool a team type draws field officers from.
func (t TeamType) Category() Category {
	if t == TeamTypeCoordinator {
		return CategoryCoordinator
	}
	return CategoryRegional
}

// Category names an independent field-officer assignment pool.
type Category string

const (
	CategoryCoordinator Category = "coordinator"
	CategoryRegional    Category = "regional"
)

// ParseCategory validates a pool category.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryCoordinator, CategoryRegional:
		return Category(raw), nil
	default:
		return "", fmt.Errorf("unknown team category %q", raw)
	}
}

// ManagerRole is the role a team lead must hold to lead a team of this category.
func (c Category) ManagerRole() RoleTag {
	if c == CategoryCoordinator {
		return RoleCoordinator
	}
	return RoleRegionalManagerLike
}

// TeamType is the type used when creating a team for this category.
func (c Category) TeamType() TeamType {
	if c == CategoryCoordinator {
		return TeamTypeCoordinator
	}
	return TeamTypeRegionalManager
}

// FieldOfficer is the reduced employee record carried in a team roster.
type FieldOfficer struct {
	ID        int64          `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	City      string         `json:"city,omitempty"`
	Status    EmployeeStatus `json:"status,omitempty"`
}

// Team is a normalized team. ID is negative for placeholder teams that exist
// only on this side of the wire.
type Team struct {
	ID            int64          `json:"id"`
	OfficeManager Employee       `json:"officeManager"`
	Avp           *Employee      `json:"avp"`
	FieldOfficers []FieldOfficer `json:"fieldOfficers"`
	TeamType      TeamType       `json:"teamType"`
}

// Ref returns the tagged reference for this team.
func (t Team) Ref() TeamRef {
	return TeamRefFromID(t.ID)
}

// HasFieldOfficer reports whether id is on the roster.
func (t Team) HasFieldOfficer(id int64) bool {
	for _, fo := range t.FieldOfficers {
		if fo.ID == id {
			return true
		}
	}
	return false
}

// PlaceholderIDOffset separates synthesized team ids from backend ids.
const PlaceholderIDOffset int64 = 1_000_000

// MaxPlaceholderManagerID is the largest manager id whose placeholder id
// still fits in an int64.
const MaxPlaceholderManagerID = math.MaxInt64 - PlaceholderIDOffset

// TeamRef identifies either a team that exists upstream or a team that still
// has to be created for a manager.
type TeamRef struct {
	id        int64
	managerID int64
	pending   bool
}

// ExistingTeam references a backend team.
func ExistingTeam(id int64) TeamRef {
	return TeamRef{id: id}
}

// PendingTeam references a not-yet-created team for managerID.
func PendingTeam(managerID int64) TeamRef {
	return TeamRef{managerID: managerID, pending: true}
}

// TeamRefFromID decodes a wire id; negative ids below the placeholder offset
// decode to PendingTeam. MinInt64 has no manager and decodes to an invalid ref.
func TeamRefFromID(id int64) TeamRef {
	if id < -math.MaxInt64 {
		return ExistingTeam(id)
	}
	if id <= -PlaceholderIDOffset-1 {
		return PendingTeam(-id - PlaceholderIDOffset)
	}
	return ExistingTeam(id)
}

// Pending reports whether the team still has to be materialized.
func (r TeamRef) Pending() bool { return r.pending }

// TeamID returns the backend id; only meaningful when !Pending().
func (r TeamRef) TeamID() int64 { return r.id }

// ManagerID returns the manager a pending team is for.
func (r TeamRef) ManagerID() int64 { return r.managerID }

// Valid reports whether the reference can be acted upon.
func (r TeamRef) Valid() bool {
	if r.pending {
		return r.managerID > 0 && r.managerID <= MaxPlaceholderManagerID
	}
	return r.id > 0
}

// WireID encodes the reference for clients. An invalid pending ref encodes
// as 0, which is never a team id.
func (r TeamRef) WireID() int64 {
	if r.pending {
		if !r.Valid() {
			return 0
		}
		return -r.managerID - PlaceholderIDOffset
	}
	return r.id
}

func (r TeamRef) String() string {
	if r.pending {
		return fmt.Sprintf("pending(manager=%d)", r.managerID)
	}
	return fmt.Sprintf("team(%d)", r.id)
}
