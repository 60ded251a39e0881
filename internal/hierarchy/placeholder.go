package hierarchy

import (
	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// PlaceholderTeamID encodes a manager id as a synthetic, always-negative team
// id. It returns 0 for ids that cannot be encoded.
func PlaceholderTeamID(managerID int64) int64 {
	return domain.PendingTeam(managerID).WireID()
}

// ManagerIDFromPlaceholder reverses PlaceholderTeamID. ok is false for ids
// that are not placeholders.
func ManagerIDFromPlaceholder(teamID int64) (int64, bool) {
	ref := domain.TeamRefFromID(teamID)
	if !ref.Pending() {
		return 0, false
	}
	return ref.ManagerID(), true
}

// UnassignedRegionalManagers returns regional-manager-like employees that lead
// no team and have no backend team id.
func UnassignedRegionalManagers(teams []domain.Team, employees []domain.Employee) []domain.Employee {
	leads := IDSet{}
	for _, t := range teams {
		leads[t.OfficeManager.ID] = struct{}{}
	}

	out := []domain.Employee{}
	for _, e := range employees {
		if e.ID <= 0 || e.Deleted() || e.RoleTag() != domain.RoleRegionalManagerLike {
			continue
		}
		if leads.Has(e.ID) || e.HasTeam() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SynthesizePlaceholderTeams builds an empty regional team for each manager so
// that "create team and assign AVP" can be offered as a single action.
func SynthesizePlaceholderTeams(managers []domain.Employee) []domain.Team {
	out := make([]domain.Team, 0, len(managers))
	for _, m := range managers {
		if !domain.PendingTeam(m.ID).Valid() {
			continue
		}
		out = append(out, domain.Team{
			ID:            PlaceholderTeamID(m.ID),
			OfficeManager: m,
			FieldOfficers: []domain.FieldOfficer{},
			TeamType:      domain.TeamTypeRegionalManager,
		})
	}
	return out
}
