package dto

import (
	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// CreateTeamRequest payload for POST /teams.
type CreateTeamRequest struct {
	Category        domain.Category `json:"category"`
	ManagerID       int64           `json:"managerId"`
	FieldOfficerIDs []int64         `json:"fieldOfficerIds"`
}

// AssignAvpRequest payload for POST /teams/avp. TeamID may be a placeholder id.
type AssignAvpRequest struct {
	TeamID          int64   `json:"teamId"`
	AvpID           int64   `json:"avpId"`
	FieldOfficerIDs []int64 `json:"fieldOfficerIds"`
}

// RosterRequest payload for adding or removing field officers.
type RosterRequest struct {
	FieldOfficerIDs []int64 `json:"fieldOfficerIds"`
}

// TeamResponse is a normalized team.
type TeamResponse struct {
	ID            int64                 `json:"id"`
	Placeholder   bool                  `json:"placeholder"`
	TeamType      domain.TeamType       `json:"teamType"`
	Category      domain.Category       `json:"category"`
	OfficeManager domain.Employee       `json:"officeManager"`
	Avp           *domain.Employee      `json:"avp"`
	FieldOfficers []domain.FieldOfficer `json:"fieldOfficers"`
}

// NewTeamResponse maps a team.
func NewTeamResponse(t domain.Team) TeamResponse {
	officers := t.FieldOfficers
	if officers == nil {
		officers = []domain.FieldOfficer{}
	}
	return TeamResponse{
		ID:            t.ID,
		Placeholder:   t.Ref().Pending(),
		TeamType:      t.TeamType,
		Category:      t.TeamType.Category(),
		OfficeManager: t.OfficeManager,
		Avp:           t.Avp,
		FieldOfficers: officers,
	}
}

// NewTeamResponses maps a slice of teams.
func NewTeamResponses(teams []domain.Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, NewTeamResponse(t))
	}
	return out
}

// PageMeta describes one page of a filtered listing.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	EmployeeID   int64               `json:"employeeId"`
	Role         string              `json:"role"`
	Authorities  []string            `json:"authorities"`
	Capabilities domain.Capabilities `json:"capabilities"`
}
