package hierarchy

import (
	"sort"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// IDSet is a set of employee ids.
type IDSet map[int64]struct{}

// Has reports membership.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pool is the set of people that can still be assigned within one category.
type Pool struct {
	Category               domain.Category
	AvailableManagers      []domain.Employee
	AvailableFieldOfficers []domain.Employee
	ClaimedFieldOfficerIDs IDSet
	ClaimedManagerIDs      IDSet
}

// ComputeAvailablePool works out which managers and field officers are free
// for a new team of the given category.
//
// Field-officer claims only count teams of the same category. Manager claims
// count every team, except that a manager flagged deleted never blocks.
func ComputeAvailablePool(teams []domain.Team, employees []domain.Employee, category domain.Category) Pool {
	pool := Pool{
		Category:               category,
		AvailableManagers:      []domain.Employee{},
		AvailableFieldOfficers: []domain.Employee{},
		ClaimedFieldOfficerIDs: ClaimedFieldOfficers(teams, category),
		ClaimedManagerIDs:      ClaimedManagers(teams, employees),
	}

	managerRole := category.ManagerRole()
	for _, e := range employees {
		switch e.RoleTag() {
		case managerRole:
			if !pool.ClaimedManagerIDs.Has(e.ID) {
				pool.AvailableManagers = append(pool.AvailableManagers, e)
			}
		case domain.RoleFieldOfficer:
			if !e.Deleted() && !pool.ClaimedFieldOfficerIDs.Has(e.ID) {
				pool.AvailableFieldOfficers = append(pool.AvailableFieldOfficers, e)
			}
		}
	}
	return pool
}

// ClaimedFieldOfficers unions the rosters of teams in the given category.
func ClaimedFieldOfficers(teams []domain.Team, category domain.Category) IDSet {
	claimed := IDSet{}
	for _, t := range teams {
		if t.TeamType.Category() != category {
			continue
		}
		for _, fo := range t.FieldOfficers {
			claimed[fo.ID] = struct{}{}
		}
	}
	return claimed
}

// ClaimedManagers returns every team lead across all categories, minus those
// flagged deleted either on the team record or in the employee list.
func ClaimedManagers(teams []domain.Team, employees []domain.Employee) IDSet {
	deleted := IDSet{}
	for _, e := range employees {
		if e.Deleted() {
			deleted[e.ID] = struct{}{}
		}
	}

	claimed := IDSet{}
	for _, t := range teams {
		if t.ID <= 0 {
			continue
		}
		m := t.OfficeManager
		if m.ID <= 0 || m.Deleted() || deleted.Has(m.ID) {
			continue
		}
		claimed[m.ID] = struct{}{}
	}
	return claimed
}

// CityCandidates lists the cities offered for a category. Regional teams may
// share cities, so nothing is subtracted; coordinator teams take no cities.
func CityCandidates(cities []string, category domain.Category) []string {
	if category != domain.CategoryRegional {
		return nil
	}
	return MergeCities(cities)
}
