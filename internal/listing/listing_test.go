package listing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

type visit struct {
	Name   string
	Status string
	City   string
	When   time.Time
}

func (v visit) SearchFields() []string { return []string{v.Name, v.City} }

func (v visit) FilterValues(key string) []string {
	switch key {
	case "status":
		return []string{v.Status}
	case "district":
		return []string{v.City}
	}
	return nil
}

func (v visit) FilterDate() (time.Time, bool) { return v.When, !v.When.IsZero() }

func day(d int, hour int) time.Time {
	return time.Date(2024, 5, d, hour, 30, 0, 0, time.UTC)
}

func TestApply_Conjunction(t *testing.T) {
	items := []visit{{Status: "A", City: "X"}, {Status: "B", City: "X"}}
	f := domain.FilterState{Enums: map[string]string{"status": "A", "district": "all"}}

	got := Apply(items, f)
	assert.Equal(t, []visit{items[0]}, got)
}

func TestApply_Search(t *testing.T) {
	items := []visit{{Name: "Sharma Traders", City: "Pune"}, {Name: "Gupta Stores", City: "Nagpur"}}

	assert.Len(t, Apply(items, domain.FilterState{Search: "sharma"}), 1)
	assert.Len(t, Apply(items, domain.FilterState{Search: "PUR"}), 1)
	assert.Len(t, Apply(items, domain.FilterState{Search: "  "}), 2)
	assert.Empty(t, Apply(items, domain.FilterState{Search: "zzz"}))
}

func TestApply_UnknownAttributeExcludes(t *testing.T) {
	items := []visit{{Status: "A"}}
	assert.Empty(t, Apply(items, domain.FilterState{Enums: map[string]string{"priority": "HIGH"}}))
	assert.Len(t, Apply(items, domain.FilterState{Enums: map[string]string{"priority": ""}}), 1)
}

func TestApply_DateRangeInclusiveCalendarDays(t *testing.T) {
	items := []visit{
		{Name: "before", When: day(9, 23)},
		{Name: "first", When: day(10, 23)},
		{Name: "last", When: day(12, 0)},
		{Name: "after", When: day(13, 0)},
		{Name: "undated"},
	}
	from := day(10, 12)
	to := day(12, 6)

	got := Apply(items, domain.FilterState{From: &from, To: &to})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "last", got[1].Name)

	openEnded := Apply(items, domain.FilterState{From: &to})
	assert.Len(t, openEnded, 2)
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 3, ClampPage(5, 25, 10))
	assert.Equal(t, 1, ClampPage(0, 25, 10))
	assert.Equal(t, 1, ClampPage(4, 0, 10))
	assert.Equal(t, 2, ClampPage(2, 25, 10))
	assert.Equal(t, 3, PageCount(25, 10))
	assert.Equal(t, 0, PageCount(0, 10))

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}
	assert.Equal(t, []int{20, 21, 22, 23, 24}, Paginate(items, 3, 10))
	assert.Empty(t, Paginate(items, 4, 10))

	page := BuildPage(items, 5, 10)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)
}

func TestPagination_ExtremeValues(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(items, math.MaxInt/5, 10))
		assert.Empty(t, Paginate(items, math.MaxInt, math.MaxInt))
	})
	assert.Equal(t, []int{1, 2, 3}, Paginate(items, 1, math.MaxInt))
	assert.Equal(t, 1, PageCount(3, math.MaxInt))
	assert.Equal(t, 1, PageCount(math.MaxInt, math.MaxInt))
	assert.Equal(t, math.MaxInt, PageCount(math.MaxInt, 1))

	page := BuildPage(items, math.MaxInt, math.MaxInt)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, items, page.Items)
}

func TestView_ClampsWhenFilteredSetShrinks(t *testing.T) {
	items := make([]visit, 0, 25)
	for i := 0; i < 25; i++ {
		status := "open"
		if i < 5 {
			status = "closed"
		}
		items = append(items, visit{Status: status})
	}

	v := NewView[visit](domain.NewFilterState())
	v.Refresh(items)
	v.SetPage(3)
	assert.Equal(t, 3, v.Current().Page)

	f := v.Filters().WithEnum("status", "closed")
	refetch := v.SetFilters(f, false)
	assert.False(t, refetch)
	cur := v.Current()
	assert.Equal(t, 1, cur.Page)
	assert.Len(t, cur.Items, 5)

	v.SetPage(9)
	assert.Equal(t, 1, v.Filters().Page)
}

func TestView_RefetchOnlyOnSubmitOrDateChange(t *testing.T) {
	v := NewView[visit](domain.NewFilterState())
	f := v.Filters()
	f.Search = "abc"
	assert.False(t, v.SetFilters(f, false))
	assert.True(t, v.SetFilters(f, true))

	from := day(1, 0)
	f.From = &from
	assert.True(t, v.SetFilters(f, false))
	assert.False(t, v.SetFilters(f, false))
}

func TestSort(t *testing.T) {
	items := []visit{{Name: "b"}, {Name: "A"}, {Name: "c"}}
	Sort(items, func(v visit) string { return v.Name })
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "c", items[2].Name)
}

func TestDomainRecords(t *testing.T) {
	teams := []domain.Team{
		{ID: 1, TeamType: domain.TeamTypeCoordinator, OfficeManager: domain.Employee{ID: 1, FirstName: "Asha", AssignedCity: []string{"Pune"}}},
		{ID: 2, TeamType: domain.TeamTypeRegionalManager, OfficeManager: domain.Employee{ID: 2, FirstName: "Vikram", City: "Nagpur"},
			FieldOfficers: []domain.FieldOfficer{{ID: 9, FirstName: "Sunil"}}},
	}

	got := Apply(teams, domain.FilterState{Enums: map[string]string{"district": "Pune"}})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = Apply(teams, domain.FilterState{Search: "sunil"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got = Apply(teams, domain.FilterState{Enums: map[string]string{"avp": "none", "teamType": "REGIONAL_MANAGER_TEAM"}})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}
