package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/config"
	"github.com/gupta1123/fieldsales-teams/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observability.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	metrics := observability.NewMetrics()
	c := NewClient(config.UpstreamConfig{
		BaseURL:           srv.URL,
		TimeoutSeconds:    2,
		ReadRetryAttempts: 3,
		ReadRetryDelayMS:  1,
	}, zap.NewNop(), metrics)
	return c, metrics
}

func TestClient_GetHierarchyForwardsToken(t *testing.T) {
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employee/team/hierarchy", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"regionalManagerTeams":[{"teamId":1,"manager":{"id":2}}]}`)
	})

	p, err := c.GetHierarchy(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, p.RegionalManagerTeams, 1)
	assert.Equal(t, int64(1), p.RegionalManagerTeams[0].TeamID.Value)
	assert.Equal(t, int64(1), metrics.Snapshot().UpstreamCalls["get_hierarchy|200"])
}

func TestClient_FieldOfficersByCityEscapesQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employee/getFieldOfficerByCity", r.URL.Path)
		assert.Equal(t, "New Delhi", r.URL.Query().Get("city"))
		_, _ = io.WriteString(w, `[{"id": 3, "firstName": "Ajay", "role": "Field Officer"}, {"name": "no id"}, 5]`)
	})

	officers, err := c.GetFieldOfficersByCity(context.Background(), "t", "New Delhi")
	require.NoError(t, err)
	require.Len(t, officers, 1)
	assert.Equal(t, "Ajay", officers[0].FirstName)
}

func TestClient_FieldOfficersScopedToCaller(t *testing.T) {
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/employee/getFieldOfficer", r.URL.Path)
		assert.Equal(t, "Bearer mgr-tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id": "12", "name": "Kiran Das", "role": "FIELD_OFFICER"}, {"id": 14, "role": "Field Officer"}]`)
	})

	officers, err := c.GetFieldOfficers(context.Background(), "mgr-tok")
	require.NoError(t, err)
	require.Len(t, officers, 2)
	assert.Equal(t, int64(12), officers[0].ID)
	assert.Equal(t, "Kiran", officers[0].FirstName)
	assert.Equal(t, int64(1), metrics.Snapshot().UpstreamCalls["get_field_officers|200"])
}

func TestClient_CreateTeam(t *testing.T) {
	cases := []struct {
		name string
		resp string
		want int64
	}{
		{"object id", `{"id": 41, "teamType": "REGIONAL_MANAGER_TEAM"}`, 41},
		{"object teamId", `{"teamId": "42"}`, 42},
		{"bare number", `43`, 43},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, float64(7), body["officeManagerId"])
				assert.Equal(t, []any{}, body["fieldOfficerIds"])
				assert.Equal(t, "REGIONAL_MANAGER_TEAM", body["teamType"])
				_, _ = io.WriteString(w, tc.resp)
			})
			id, err := c.CreateTeam(context.Background(), "t", CreateTeamRequest{OfficeManagerID: 7, TeamType: "REGIONAL_MANAGER_TEAM"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestClient_CreateTeamWithoutID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "ok"}`)
	})
	_, err := c.CreateTeam(context.Background(), "t", CreateTeamRequest{OfficeManagerID: 7})
	assert.Error(t, err)
}

func TestClient_RosterMutations(t *testing.T) {
	var calls []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		if r.URL.Path != "/employee/team/delete" {
			var body map[string][]int64
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []int64{4, 5}, body["fieldOfficers"])
		}
	})
	ctx := context.Background()

	require.NoError(t, c.AddFieldOfficers(ctx, "t", 9, []int64{4, 5}))
	require.NoError(t, c.RemoveFieldOfficers(ctx, "t", 9, []int64{4, 5}))
	require.NoError(t, c.DeleteTeam(ctx, "t", 9))
	assert.Equal(t, []string{
		"PUT /employee/team/addFieldOfficer?id=9",
		"DELETE /employee/team/deleteFieldOfficer?id=9",
		"DELETE /employee/team/delete?id=9",
	}, calls)
}

func TestClient_ErrorBodyIsVerbatim(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employee/team/editAvp", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "The given id must not be null")
	})

	err := c.EditAvp(context.Background(), "t", 5, 99)
	require.Error(t, err)
	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusInternalServerError, ue.Status)
	assert.Equal(t, "The given id must not be null", ue.Body)
	assert.True(t, IsTeamWithoutMembers(err))
}

func TestIsTeamWithoutMembers_StructuredCodeWins(t *testing.T) {
	withCode := newError("edit_avp", 400, []byte(`{"code":"TEAM_HAS_NO_MEMBERS","message":"team empty"}`))
	assert.True(t, IsTeamWithoutMembers(withCode))
	assert.Equal(t, "team empty", withCode.Message())

	otherCode := newError("edit_avp", 400, []byte(`{"code":"OTHER","message":"id must not be null"}`))
	assert.False(t, IsTeamWithoutMembers(otherCode))

	assert.False(t, IsTeamWithoutMembers(errors.New("id must not be null")))
	assert.False(t, IsTeamWithoutMembers(newError("edit_avp", 404, []byte("team not found"))))
}

func TestClient_GetCitiesRetriesTransientFailures(t *testing.T) {
	var attempts int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `["Pune","Mumbai"]`)
	})

	cities, err := c.GetCities(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pune", "Mumbai"}, cities)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_GetCitiesDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetCities(context.Background(), "t")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_HierarchyIsNotRetried(t *testing.T) {
	var attempts int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetHierarchy(context.Background(), "t")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}
