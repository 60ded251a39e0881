package hierarchy

import (
	"sort"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// Result is the outcome of Normalize. Dropped counts payload entries that
// could not be turned into (or attached to) a team.
type Result struct {
	Teams   []domain.Team `json:"teams"`
	Dropped int           `json:"dropped"`
}

// Normalize flattens the hierarchy payload into one Team per backend team id.
//
// Regional-manager teams are merged first, then coordinator teams, then the
// AVP groups. The AVP pass attaches the AVP and only fills the roster of a
// team that has none. Normalize never fails; bad entries are counted in
// Result.Dropped. Teams are returned sorted by id.
func Normalize(p Payload) Result {
	b := &builder{teams: make(map[int64]*domain.Team), dropped: p.Malformed}

	for _, e := range p.RegionalManagerTeams {
		b.mergeEntry(e, domain.TeamTypeRegionalManager)
	}
	for _, e := range p.CoordinatorTeams {
		b.mergeEntry(e, domain.TeamTypeCoordinator)
	}
	for _, g := range p.AvpTeams {
		b.mergeAvpGroup(g)
	}
	return b.result()
}

type builder struct {
	teams   map[int64]*domain.Team
	dropped int
}

func (b *builder) mergeEntry(e ManagerEntry, inferred domain.TeamType) {
	b.dropped += e.Malformed
	if !e.TeamID.Positive() {
		b.dropped++
		return
	}
	roster := b.roster(e.FieldOfficers)

	team, exists := b.teams[e.TeamID.Value]
	if !exists {
		manager, ok := e.Manager.ToEmployee()
		if !ok {
			b.dropped++
			return
		}
		b.teams[e.TeamID.Value] = &domain.Team{
			ID:            e.TeamID.Value,
			OfficeManager: manager,
			FieldOfficers: roster,
			TeamType:      teamTypeOr(e.TeamType, inferred),
		}
		return
	}

	for _, fo := range roster {
		if !team.HasFieldOfficer(fo.ID) {
			team.FieldOfficers = append(team.FieldOfficers, fo)
		}
	}
	if tt, ok := domain.ParseTeamType(e.TeamType); ok {
		team.TeamType = tt
	}
}

// mergeAvpGroup attaches the group's AVP to each listed team. A group whose
// AVP cannot be resolved is counted once as dropped; its teams are still
// merged without touching the AVP already on them.
func (b *builder) mergeAvpGroup(g AvpGroup) {
	var avp *domain.Employee
	if resolved, ok := g.Avp.ToEmployee(); ok {
		avp = &resolved
	} else {
		b.dropped++
	}

	for _, e := range g.Managers {
		b.dropped += e.Malformed
		if !e.TeamID.Positive() {
			b.dropped++
			continue
		}
		team, exists := b.teams[e.TeamID.Value]
		if !exists {
			manager, ok := e.Manager.ToEmployee()
			if !ok {
				b.dropped++
				continue
			}
			b.teams[e.TeamID.Value] = &domain.Team{
				ID:            e.TeamID.Value,
				OfficeManager: manager,
				Avp:           copyEmployee(avp),
				FieldOfficers: b.roster(e.FieldOfficers),
				TeamType:      teamTypeOr(e.TeamType, domain.TeamTypeAvp),
			}
			continue
		}

		if avp != nil {
			team.Avp = copyEmployee(avp)
		}
		if len(team.FieldOfficers) == 0 {
			team.FieldOfficers = b.roster(e.FieldOfficers)
		}
	}
}

func copyEmployee(e *domain.Employee) *domain.Employee {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (b *builder) roster(people []Person) []domain.FieldOfficer {
	out := make([]domain.FieldOfficer, 0, len(people))
	seen := make(map[int64]struct{}, len(people))
	for i := range people {
		fo, ok := people[i].ToFieldOfficer()
		if !ok {
			b.dropped++
			continue
		}
		if _, dup := seen[fo.ID]; dup {
			continue
		}
		seen[fo.ID] = struct{}{}
		out = append(out, fo)
	}
	return out
}

func (b *builder) result() Result {
	out := Result{Teams: make([]domain.Team, 0, len(b.teams)), Dropped: b.dropped}
	for _, team := range b.teams {
		out.Teams = append(out.Teams, *team)
	}
	sort.Slice(out.Teams, func(i, j int) bool { return out.Teams[i].ID < out.Teams[j].ID })
	return out
}

func teamTypeOr(raw string, fallback domain.TeamType) domain.TeamType {
	if tt, ok := domain.ParseTeamType(raw); ok {
		return tt
	}
	return fallback
}
