package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

func decode(t *testing.T, body string) Payload {
	t.Helper()
	p, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	return p
}

func teamByID(t *testing.T, teams []domain.Team, id int64) domain.Team {
	t.Helper()
	for _, team := range teams {
		if team.ID == id {
			return team
		}
	}
	t.Fatalf("team %d not found", id)
	return domain.Team{}
}

func TestNormalize_AvpPassKeepsRegionalRoster(t *testing.T) {
	p := decode(t, `{
		"regionalManagerTeams": [
			{"teamId": 5, "manager": {"id": 1}, "fieldOfficers": [{"id": 10}, {"id": 11}]}
		],
		"avpTeams": [
			{"avp": {"id": 99}, "managers": [{"teamId": 5, "manager": {"id": 1}, "fieldOfficers": []}]}
		]
	}`)

	res := Normalize(p)
	require.Len(t, res.Teams, 1)
	team := res.Teams[0]
	require.NotNil(t, team.Avp)
	assert.Equal(t, int64(99), team.Avp.ID)
	assert.Len(t, team.FieldOfficers, 2)
	assert.Equal(t, domain.TeamTypeRegionalManager, team.TeamType)
	assert.Zero(t, res.Dropped)
}

func TestNormalize_AvpPassFillsEmptyRoster(t *testing.T) {
	p := decode(t, `{
		"regionalManagerTeams": [{"teamId": 3, "manager": {"id": 1}, "fieldOfficers": []}],
		"avpTeams": [
			{"avp": {"id": 50, "name": "Meera Rao Iyer"}, "teams": [
				{"teamId": 3, "fieldOfficers": [{"id": 7}, {"id": 7}]},
				{"teamId": 4, "officeManager": {"id": 2}, "fieldOfficers": [{"id": 8}]}
			]}
		]
	}`)

	res := Normalize(p)
	require.Len(t, res.Teams, 2)

	three := teamByID(t, res.Teams, 3)
	assert.Equal(t, []domain.FieldOfficer{{ID: 7, Status: domain.EmployeeStatusActive}}, three.FieldOfficers)
	assert.Equal(t, "Meera", three.Avp.FirstName)
	assert.Equal(t, "Rao Iyer", three.Avp.LastName)

	four := teamByID(t, res.Teams, 4)
	assert.Equal(t, domain.TeamTypeAvp, four.TeamType)
	assert.Equal(t, int64(2), four.OfficeManager.ID)

	// Each team owns its own AVP copy.
	four.Avp.FirstName = "changed"
	assert.Equal(t, "Meera", three.Avp.FirstName)
}

func TestNormalize_DropsUnresolvableEntries(t *testing.T) {
	p := decode(t, `{
		"regionalManagerTeams": [
			{"teamId": 0, "manager": {"id": 1}},
			{"teamId": null, "manager": {"id": 1}},
			{"manager": {"id": 1}},
			{"teamId": 9},
			"garbage",
			{"teamId": "12", "manager": {"id": "4"}, "fieldOfficers": [{"id": 0}, 17, {"id": 3}]}
		],
		"coordinatorTeams": [{"teamId": -2, "manager": {"id": 6}}],
		"avpTeams": [{"managers": [{"teamId": 12}]}]
	}`)

	res := Normalize(p)
	require.Len(t, res.Teams, 1)
	team := res.Teams[0]
	assert.Equal(t, int64(12), team.ID)
	assert.Nil(t, team.Avp)
	assert.Equal(t, []domain.FieldOfficer{{ID: 3, Status: domain.EmployeeStatusActive}}, team.FieldOfficers)
	// 3 bad ids, 1 missing manager, 1 garbage, 2 bad officers, 1 bad coordinator id, 1 group without an avp
	assert.Equal(t, 9, res.Dropped)
}

func TestNormalize_AvpGroupWithoutAvpKeepsTeams(t *testing.T) {
	p := decode(t, `{
		"regionalManagerTeams": [{"teamId": 1, "manager": {"id": 1}}],
		"avpTeams": [
			{"avp": {"id": 40}, "managers": [{"teamId": 1}]},
			{"avp": "unknown", "managers": [
				{"teamId": 1, "fieldOfficers": [{"id": 9}]},
				{"teamId": 2, "manager": {"id": 2}, "fieldOfficers": [{"id": 8}]}
			]},
			{"managers": []}
		]
	}`)

	res := Normalize(p)
	require.Len(t, res.Teams, 2)
	// one count per group without an avp
	assert.Equal(t, 2, res.Dropped)

	one := teamByID(t, res.Teams, 1)
	require.NotNil(t, one.Avp)
	assert.Equal(t, int64(40), one.Avp.ID)
	assert.Equal(t, []domain.FieldOfficer{{ID: 9, Status: domain.EmployeeStatusActive}}, one.FieldOfficers)

	two := teamByID(t, res.Teams, 2)
	assert.Nil(t, two.Avp)
	assert.Equal(t, domain.TeamTypeAvp, two.TeamType)
	assert.Equal(t, []domain.FieldOfficer{{ID: 8, Status: domain.EmployeeStatusActive}}, two.FieldOfficers)
}

func TestNormalize_WrongShapedRosterKeepsTeam(t *testing.T) {
	cases := []struct {
		name    string
		entry   string
		dropped int
		roster  int
	}{
		{"empty string roster", `{"teamId": 5, "manager": {"id": 1}, "fieldOfficers": ""}`, 1, 0},
		{"object roster", `{"teamId": 5, "manager": {"id": 1}, "fieldOfficers": {"id": 3}}`, 1, 0},
		{"null roster", `{"teamId": 5, "manager": {"id": 1}, "fieldOfficers": null}`, 0, 0},
		{"manager alias after scalar", `{"teamId": 5, "manager": "n/a", "officeManager": {"id": 1}, "fieldOfficers": [{"id": 4}]}`, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Normalize(decode(t, `{"coordinatorTeams": [`+tc.entry+`]}`))
			require.Len(t, res.Teams, 1)
			assert.Equal(t, int64(5), res.Teams[0].ID)
			assert.Equal(t, int64(1), res.Teams[0].OfficeManager.ID)
			assert.Len(t, res.Teams[0].FieldOfficers, tc.roster)
			assert.Equal(t, tc.dropped, res.Dropped)
		})
	}

	res := Normalize(decode(t, `{"coordinatorTeams": [{"teamId": 6, "manager": 12}]}`))
	assert.Empty(t, res.Teams)
	assert.Equal(t, 1, res.Dropped)
}

func TestNormalize_IdsArePositiveSubsetOfInput(t *testing.T) {
	p := decode(t, `{
		"regionalManagerTeams": [{"teamId": 1, "manager": {"id": 1}}, {"teamId": -1, "manager": {"id": 2}}],
		"coordinatorTeams": [{"id": 2, "manager": {"id": 3}}],
		"avpTeams": [{"avp": {"id": 4}, "managers": [{"teamId": 3, "manager": {"id": 5}}, {"teamId": 0}]}]
	}`)
	input := map[int64]bool{1: true, -1: true, 2: true, 3: true, 0: true}

	for _, team := range Normalize(p).Teams {
		assert.Greater(t, team.ID, int64(0))
		assert.True(t, input[team.ID], "team %d not in input", team.ID)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	body := `{
		"regionalManagerTeams": [{"teamId": 8, "manager": {"id": 1}}, {"teamId": 2, "manager": {"id": 2}}],
		"coordinatorTeams": [{"teamId": 5, "manager": {"id": 3}, "fieldOfficers": [{"id": 1}]}],
		"avpTeams": [{"avp": {"id": 4}, "managers": [{"teamId": 8}]}]
	}`
	first := Normalize(decode(t, body))
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Normalize(decode(t, body))); diff != "" {
			t.Fatalf("normalize not deterministic (-first +again):\n%s", diff)
		}
	}
	assert.Equal(t, []int64{2, 5, 8}, []int64{first.Teams[0].ID, first.Teams[1].ID, first.Teams[2].ID})
}

func TestNormalize_DuplicateEntriesMerge(t *testing.T) {
	p := decode(t, `{
		"regionalManagerTeams": [
			{"teamId": 1, "manager": {"id": 1}, "fieldOfficers": [{"id": 10}]},
			{"teamId": 1, "manager": {"id": 1}, "fieldOfficers": [{"id": 10}, {"id": 11}]}
		],
		"coordinatorTeams": [{"teamId": 1, "teamType": "COORDINATOR_TEAM", "manager": {"id": 1}}]
	}`)
	res := Normalize(p)
	require.Len(t, res.Teams, 1)
	assert.Len(t, res.Teams[0].FieldOfficers, 2)
	assert.Equal(t, domain.TeamTypeCoordinator, res.Teams[0].TeamType)
}

func TestDecodePayload_RejectsNonObject(t *testing.T) {
	_, err := DecodePayload([]byte(`[1,2]`))
	assert.Error(t, err)

	p, err := DecodePayload([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, Normalize(p).Teams)
}

func TestPerson_FieldResolution(t *testing.T) {
	p := decode(t, `{"regionalManagerTeams": [{"teamId": 1, "manager": {
		"id": 7,
		"name": "  Ravi   Kumar  Singh ",
		"emailId": "",
		"emailAddress": "ravi@example.com",
		"officialEmail": "ravi@corp.example.com",
		"phone": "",
		"phoneNumber": "+91 98-7654-3210",
		"role": "ROLE_MANAGER",
		"city": "Pune",
		"status": "Deleted",
		"assignedCity": "Pune, Mumbai",
		"assignedCities": ["mumbai", "Nashik"],
		"cities": ["  ", "NASHIK", "Goa"],
		"teamId": "1"
	}}]}`)

	manager := Normalize(p).Teams[0].OfficeManager
	assert.Equal(t, "Ravi", manager.FirstName)
	assert.Equal(t, "Kumar Singh", manager.LastName)
	assert.Equal(t, "ravi@example.com", manager.Email)
	require.NotNil(t, manager.Phone)
	assert.Equal(t, int64(919876543210), *manager.Phone)
	assert.Equal(t, []string{"Pune", "Mumbai", "Nashik", "Goa"}, manager.AssignedCity)
	assert.Equal(t, domain.EmployeeStatusDeleted, manager.Status)
	assert.Equal(t, domain.RoleRegionalManagerLike, manager.RoleTag())
	require.NotNil(t, manager.TeamID)
	assert.Equal(t, int64(1), *manager.TeamID)
}

func TestPerson_PhoneAndCityFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		person string
		phone  *int64
		cities []string
	}{
		{"numeric phone", `{"id": 1, "primaryContact": 9123456789, "city": "Delhi"}`, ptr(int64(9123456789)), []string{"Delhi"}},
		{"no digits is absent", `{"id": 1, "phone": "n/a", "mobile": "9000000000"}`, nil, []string{}},
		{"nothing set", `{"id": 1}`, nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := decode(t, `{"coordinatorTeams": [{"teamId": 1, "manager": `+tc.person+`}]}`)
			m := Normalize(p).Teams[0].OfficeManager
			assert.Equal(t, tc.phone, m.Phone)
			assert.Equal(t, tc.cities, m.AssignedCity)
		})
	}
}

func ptr[T any](v T) *T { return &v }
