package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/events"
	"github.com/gupta1123/fieldsales-teams/internal/hierarchy"
	"github.com/gupta1123/fieldsales-teams/internal/upstream"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// MsgTeamWithoutMembers is shown when the CRM refuses an AVP assignment
// because the team's manager has no field officers.
const MsgTeamWithoutMembers = "this manager's team has no members yet, add members before assigning an AVP"

// CRM is the part of the CRM backend the services call. *upstream.Client
// implements it.
type CRM interface {
	GetHierarchy(ctx context.Context, token string) (hierarchy.Payload, error)
	GetAllEmployees(ctx context.Context, token string) ([]domain.Employee, error)
	GetAllFieldOfficers(ctx context.Context, token string) ([]domain.Employee, error)
	GetFieldOfficers(ctx context.Context, token string) ([]domain.Employee, error)
	GetFieldOfficersByCity(ctx context.Context, token, city string) ([]domain.Employee, error)
	GetCities(ctx context.Context, token string) ([]string, error)
	AssignCity(ctx context.Context, token string, employeeID int64, city string) error
	RemoveCity(ctx context.Context, token string, employeeID int64, city string) error
	CreateTeam(ctx context.Context, token string, req upstream.CreateTeamRequest) (int64, error)
	EditAvp(ctx context.Context, token string, teamID, avpID int64) error
	AddFieldOfficers(ctx context.Context, token string, teamID int64, officerIDs []int64) error
	RemoveFieldOfficers(ctx context.Context, token string, teamID int64, officerIDs []int64) error
	DeleteTeam(ctx context.Context, token string, teamID int64) error
}

var _ CRM = (*upstream.Client)(nil)

// Caller is the authenticated employee a service call runs for.
type Caller struct {
	EmployeeID   int64
	Capabilities domain.Capabilities
	// Token is forwarded to the CRM backend.
	Token string
}

func (c Caller) actor() events.Actor {
	return events.Actor{EmployeeID: c.EmployeeID, Role: c.Capabilities.Role}
}

func requireManage(c Caller) error {
	if !c.Capabilities.CanManageTeams {
		return apperrors.NewForbidden("team management requires an admin or data manager role")
	}
	return nil
}

// translateUpstream maps CRM failures onto the application error taxonomy.
func translateUpstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if upstream.IsTeamWithoutMembers(err) {
		return apperrors.NewBusinessRule(MsgTeamWithoutMembers, map[string]any{"code": upstream.CodeTeamHasNoMembers})
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return apperrors.NewUpstreamRejected(ue.Status, ue.Message(), ue.Body, ue)
	}
	return apperrors.NewUpstreamUnavailable(err)
}

// userMessage is the text shown for a failed workflow step.
func userMessage(err error) string {
	if upstream.IsTeamWithoutMembers(err) {
		return MsgTeamWithoutMembers
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return ue.Message()
	}
	return strings.TrimSpace(err.Error())
}

func validIDs(ids []int64) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if id <= 0 {
			return false
		}
	}
	return true
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
