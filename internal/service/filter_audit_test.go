package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/events"
	"github.com/gupta1123/fieldsales-teams/internal/repository"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

func TestFilterStateService_LoadDefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	svc := NewFilterStateService(repository.NewMemoryFilterStateRepository(), nil)
	caller := callerAs("ADMIN", 3)

	state, err := svc.Load(ctx, caller, "teams")
	require.NoError(t, err)
	assert.Equal(t, domain.NewFilterState(), state)

	in := domain.FilterState{Search: "  pune ", Enums: map[string]string{"teamType": "all", "district": "Pune"}}
	saved, err := svc.Save(ctx, caller, "teams", in)
	require.NoError(t, err)
	assert.Equal(t, "pune", saved.Search)
	assert.Equal(t, map[string]string{"district": "Pune"}, saved.Enums)
	assert.Equal(t, 1, saved.Page)
	assert.Equal(t, domain.DefaultPageSize, saved.PageSize)

	loaded, err := svc.Load(ctx, caller, "teams")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	other, err := svc.Load(ctx, callerAs("ADMIN", 4), "teams")
	require.NoError(t, err)
	assert.Empty(t, other.Search)

	require.NoError(t, svc.Reset(ctx, caller, "teams"))
	reset, err := svc.Load(ctx, caller, "teams")
	require.NoError(t, err)
	assert.Equal(t, domain.NewFilterState(), reset)
}

func TestFilterStateService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewFilterStateService(repository.NewMemoryFilterStateRepository(), nil)
	caller := callerAs("ADMIN", 3)

	_, err := svc.Load(ctx, caller, "../etc")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	from := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	_, err = svc.Save(ctx, caller, "employees", domain.FilterState{From: &from, To: &to})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

type failingFilterRepo struct{ repository.FilterStateRepository }

func (failingFilterRepo) Get(ctx context.Context, employeeID int64, screen string) (domain.FilterState, error) {
	return domain.FilterState{}, errors.New("redis down")
}

func TestFilterStateService_LoadFallsBackWhenStoreFails(t *testing.T) {
	svc := NewFilterStateService(failingFilterRepo{}, zap.NewNop())
	state, err := svc.Load(context.Background(), callerAs("ADMIN", 3), "teams")
	require.NoError(t, err)
	assert.Equal(t, domain.NewFilterState(), state)
}

type failingAuditRepo struct{ repository.AuditRepository }

func (failingAuditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	return errors.New("postgres down")
}

func TestAuditService_RecordsEveryTeamEvent(t *testing.T) {
	ctx := context.Background()
	d := events.NewInMemoryDispatcher()
	repo := repository.NewMemoryAuditRepository()
	audit := NewAuditService(d, repo, zap.NewNop())
	audit.RegisterHandlers()

	crm := newFakeCRM()
	svc, _ := newTeamService(crm, d)
	admin := callerAs("ADMIN", 1)
	require.NoError(t, svc.AddFieldOfficers(ctx, admin, 20, []int64{4}))
	require.NoError(t, svc.DeleteTeam(ctx, admin, 20))
	require.NoError(t, svc.AssignCity(ctx, admin, 7, "Pune"))

	history, err := audit.TeamHistory(ctx, admin, 20, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	types := []string{history[0].EventType, history[1].EventType}
	assert.ElementsMatch(t, []string{"field_officers_added", "team_deleted"}, types)
	for _, h := range history {
		assert.Equal(t, int64(1), h.ActorID)
		assert.Equal(t, domain.RoleAdmin, h.ActorRole)
		if h.EventType == "field_officers_added" {
			var payload events.RosterChangedPayload
			require.NoError(t, json.Unmarshal(h.Payload, &payload))
			assert.Equal(t, []int64{4}, payload.FieldOfficerIDs)
		}
	}

	empty, err := audit.TeamHistory(ctx, admin, 10, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = audit.TeamHistory(ctx, callerAs("Manager", 7), 20, 10)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestAuditService_FailuresDoNotReachPublisher(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	NewAuditService(d, failingAuditRepo{}, zap.NewNop()).RegisterHandlers()

	err := d.Publish(context.Background(), events.NewEvent(events.EventTeamDeleted, events.Actor{EmployeeID: 1}, nil))
	assert.NoError(t, err)
}

func TestEmployeeService(t *testing.T) {
	ctx := context.Background()
	crm := newFakeCRM()
	svc := NewEmployeeService(crm)

	filters := domain.NewFilterState().WithEnum("role", string(domain.RoleFieldOfficer))
	page, err := svc.ListEmployees(ctx, callerAs("HR", 1), filters)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(page.Items))

	_, err = svc.ListEmployees(ctx, callerAs("Field Officer", 1), filters)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	byCity, err := svc.FieldOfficersByCity(ctx, callerAs("Manager", 7), " Pune ", domain.NewFilterState())
	require.NoError(t, err)
	assert.Equal(t, 1, byCity.Total)
	assert.Equal(t, 1, crm.callsMatching("field_officers_by_city:Pune"))

	scoped, err := svc.FieldOfficersByCity(ctx, callerAs("Manager", 7), "", domain.NewFilterState())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(scoped.Items))
	assert.Equal(t, 1, crm.callsMatching("scoped_field_officers"))
	assert.Zero(t, crm.callsMatching("field_officers"))

	for _, role := range []string{"Coordinator", "AVP"} {
		_, err = svc.FieldOfficersByCity(ctx, callerAs(role, 8), "  ", domain.NewFilterState())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, crm.callsMatching("scoped_field_officers"))

	all, err := svc.FieldOfficersByCity(ctx, callerAs("ADMIN", 1), "", domain.NewFilterState())
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
	assert.Equal(t, 1, crm.callsMatching("field_officers"))
}
