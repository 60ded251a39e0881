package service

import "github.com/gupta1123/fieldsales-teams/internal/domain"

// ScopeTeams returns the teams the caller may see. Callers who can view all
// teams see everything; managers and coordinators see teams they lead, AVPs
// teams they are attached to and field officers teams they belong to.
func ScopeTeams(teams []domain.Team, caller Caller) []domain.Team {
	caps := caller.Capabilities
	if caps.CanViewAllTeams {
		return teams
	}
	out := []domain.Team{}
	if caller.EmployeeID <= 0 {
		return out
	}
	for _, t := range teams {
		if visibleTo(t, caller.EmployeeID, caps) {
			out = append(out, t)
		}
	}
	return out
}

func visibleTo(t domain.Team, id int64, caps domain.Capabilities) bool {
	if (caps.IsManager || caps.IsCoordinator) && t.OfficeManager.ID == id {
		return true
	}
	if caps.IsAvp && t.Avp != nil && t.Avp.ID == id {
		return true
	}
	if caps.IsFieldOfficer && t.HasFieldOfficer(id) {
		return true
	}
	return false
}
