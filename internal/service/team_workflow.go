package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/events"
	"github.com/gupta1123/fieldsales-teams/internal/upstream"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// WorkflowKind selects which team workflow runs.
type WorkflowKind string

const (
	WorkflowCoordinator WorkflowKind = "coordinator"
	WorkflowRegional    WorkflowKind = "regional"
	WorkflowAvp         WorkflowKind = "avp"
)

// WorkflowState is a step of the team workflow.
type WorkflowState string

const (
	StateSelectType       WorkflowState = "SELECT_TYPE"
	StateConfigure        WorkflowState = "CONFIGURE"
	StateSelectAvpAndTeam WorkflowState = "SELECT_AVP_AND_TEAM"
	StateMaterialize      WorkflowState = "MATERIALIZE"
	StateAssign           WorkflowState = "ASSIGN"
	StateCreate           WorkflowState = "CREATE"
	StateDone             WorkflowState = "DONE"
	StateError            WorkflowState = "ERROR"
)

// Terminal reports whether no further step follows.
func (s WorkflowState) Terminal() bool {
	return s == StateDone || s == StateError
}

// WorkflowRequest carries everything a run may need. Fields irrelevant to
// Kind are ignored.
type WorkflowRequest struct {
	Kind WorkflowKind
	// ManagerID and FieldOfficerIDs describe the team to create. For the avp
	// kind FieldOfficerIDs seed a materialized placeholder team.
	ManagerID       int64
	FieldOfficerIDs []int64
	// Team and AvpID drive the avp kind.
	Team  domain.TeamRef
	AvpID int64
}

// WorkflowRun records how far a request got.
type WorkflowRun struct {
	ID    string          `json:"id"`
	Kind  WorkflowKind    `json:"kind"`
	State WorkflowState   `json:"state"`
	Steps []WorkflowState `json:"steps"`
	// TeamID is the backend id of the created or assigned team, once known.
	TeamID       int64  `json:"teamId,omitempty"`
	Materialized bool   `json:"materialized,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func (r *WorkflowRun) enter(state WorkflowState) {
	r.State = state
	r.Steps = append(r.Steps, state)
}

func (r *WorkflowRun) fail(reason string) {
	r.Reason = reason
	r.enter(StateError)
}

// TeamWorkflow creates teams and assigns AVPs, one awaited CRM call per step.
type TeamWorkflow struct {
	crm        CRM
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTeamWorkflow constructs the workflow.
func NewTeamWorkflow(crm CRM, dispatcher events.Dispatcher, logger *zap.Logger) *TeamWorkflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamWorkflow{crm: crm, dispatcher: dispatcher, logger: logger}
}

// Run drives req as far as it can. An incomplete request stops at the step
// that is missing input, without error and without calling the CRM. A failed
// CRM call ends in ERROR; the returned error is the translated failure and
// the run carries the user-facing reason.
func (w *TeamWorkflow) Run(ctx context.Context, caller Caller, req WorkflowRequest) (*WorkflowRun, error) {
	if err := requireManage(caller); err != nil {
		return nil, err
	}
	run := &WorkflowRun{ID: uuid.NewString(), Kind: req.Kind}
	run.enter(StateSelectType)

	for !run.State.Terminal() {
		next, err := w.step(ctx, caller, req, run)
		if err != nil {
			run.fail(userMessage(err))
			w.logger.Info("team workflow failed",
				zap.String("run_id", run.ID),
				zap.String("kind", string(run.Kind)),
				zap.Int64("team_id", run.TeamID),
				zap.String("reason", run.Reason))
			return run, withRun(translateUpstream(err), run)
		}
		if next == run.State {
			return run, nil
		}
		run.enter(next)
	}
	return run, nil
}

// step performs the work of the current state and returns the next one.
// Returning the current state means the request lacks input for it.
func (w *TeamWorkflow) step(ctx context.Context, caller Caller, req WorkflowRequest, run *WorkflowRun) (WorkflowState, error) {
	switch run.State {
	case StateSelectType:
		switch req.Kind {
		case WorkflowCoordinator, WorkflowRegional, WorkflowAvp:
			return StateConfigure, nil
		}
		return StateSelectType, nil

	case StateConfigure:
		if req.Kind == WorkflowAvp {
			return StateSelectAvpAndTeam, nil
		}
		if req.ManagerID <= 0 {
			return StateConfigure, nil
		}
		return StateCreate, nil

	case StateCreate:
		teamType := categoryOf(req.Kind).TeamType()
		officers := dedupeIDs(req.FieldOfficerIDs)
		id, err := w.crm.CreateTeam(ctx, caller.Token, upstream.CreateTeamRequest{
			OfficeManagerID: req.ManagerID,
			FieldOfficerIDs: officers,
			TeamType:        teamType,
		})
		if err != nil {
			return "", err
		}
		run.TeamID = id
		w.publish(ctx, teamEvent(events.EventTeamCreated, caller, id, events.TeamCreatedPayload{
			OfficeManagerID: req.ManagerID,
			FieldOfficerIDs: officers,
			TeamType:        teamType,
		}))
		return StateDone, nil

	case StateSelectAvpAndTeam:
		if req.AvpID <= 0 || !req.Team.Valid() {
			return StateSelectAvpAndTeam, nil
		}
		if req.Team.Pending() {
			return StateMaterialize, nil
		}
		run.TeamID = req.Team.TeamID()
		return StateAssign, nil

	case StateMaterialize:
		managerID := req.Team.ManagerID()
		officers := dedupeIDs(req.FieldOfficerIDs)
		id, err := w.crm.CreateTeam(ctx, caller.Token, upstream.CreateTeamRequest{
			OfficeManagerID: managerID,
			FieldOfficerIDs: officers,
			TeamType:        domain.TeamTypeRegionalManager,
		})
		if err != nil {
			return "", err
		}
		run.TeamID = id
		run.Materialized = true
		w.publish(ctx, teamEvent(events.EventTeamCreated, caller, id, events.TeamCreatedPayload{
			OfficeManagerID: managerID,
			FieldOfficerIDs: officers,
			TeamType:        domain.TeamTypeRegionalManager,
			FromPlaceholder: true,
		}))
		return StateAssign, nil

	case StateAssign:
		if err := w.crm.EditAvp(ctx, caller.Token, run.TeamID, req.AvpID); err != nil {
			return "", err
		}
		w.publish(ctx, teamEvent(events.EventAvpAssigned, caller, run.TeamID, events.AvpAssignedPayload{AvpID: req.AvpID}))
		return StateDone, nil
	}
	return run.State, nil
}

func (w *TeamWorkflow) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, w.dispatcher, w.logger, event)
}

func categoryOf(kind WorkflowKind) domain.Category {
	if kind == WorkflowCoordinator {
		return domain.CategoryCoordinator
	}
	return domain.CategoryRegional
}

// withRun attaches the run's progress to a domain error so callers learn
// whether a placeholder team was already created.
func withRun(err error, run *WorkflowRun) error {
	de := apperrors.ToDomainError(err)
	if de == nil {
		return err
	}
	details := make(map[string]any, len(de.Details)+4)
	for k, v := range de.Details {
		details[k] = v
	}
	details["runId"] = run.ID
	details["state"] = run.State
	details["steps"] = run.Steps
	if run.TeamID != 0 {
		details["teamId"] = run.TeamID
	}
	return &apperrors.DomainError{
		Code:       de.Code,
		Message:    de.Message,
		HTTPStatus: de.HTTPStatus,
		Details:    details,
		Err:        de.Err,
	}
}
