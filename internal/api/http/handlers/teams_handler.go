package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/api/dto"
	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/service"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// TeamsHandler manages team endpoints.
type TeamsHandler struct {
	teams    *service.TeamService
	workflow *service.TeamWorkflow
	audit    *service.AuditService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService, workflow *service.TeamWorkflow, audit *service.AuditService) *TeamsHandler {
	return &TeamsHandler{teams: teams, workflow: workflow, audit: audit}
}

// ListTeams GET /teams.
func (h *TeamsHandler) ListTeams(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	filters, err := parseFilterQuery(c, "teamType", "district", "manager", "avp", "employee")
	if err != nil {
		return err
	}
	page, err := h.teams.ListTeams(c.UserContext(), caller, filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponses(page.Items), "meta": pageMeta(page)})
}

// GetTeam GET /teams/:id.
func (h *TeamsHandler) GetTeam(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	team, err := h.teams.GetTeam(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(*team)})
}

// Pool GET /teams/pool?category=.
func (h *TeamsHandler) Pool(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	category, err := domain.ParseCategory(c.Query("category"))
	if err != nil {
		return apperrors.NewValidationError("category must be coordinator or regional", nil)
	}
	pool, err := h.teams.Pool(c.UserContext(), caller, category)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pool})
}

// CreateTeam POST /teams.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := domain.ParseCategory(string(req.Category))
	if err != nil {
		return apperrors.NewValidationError("category must be coordinator or regional", nil)
	}
	kind := service.WorkflowRegional
	if category == domain.CategoryCoordinator {
		kind = service.WorkflowCoordinator
	}
	return h.runWorkflow(c, caller, service.WorkflowRequest{
		Kind:            kind,
		ManagerID:       req.ManagerID,
		FieldOfficerIDs: req.FieldOfficerIDs,
	})
}

// AssignAvp POST /teams/avp.
func (h *TeamsHandler) AssignAvp(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.AssignAvpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.runWorkflow(c, caller, service.WorkflowRequest{
		Kind:            service.WorkflowAvp,
		Team:            domain.TeamRefFromID(req.TeamID),
		AvpID:           req.AvpID,
		FieldOfficerIDs: req.FieldOfficerIDs,
	})
}

func (h *TeamsHandler) runWorkflow(c *fiber.Ctx, caller service.Caller, req service.WorkflowRequest) error {
	run, err := h.workflow.Run(c.UserContext(), caller, req)
	if err != nil {
		return err
	}
	if !run.State.Terminal() {
		return apperrors.NewValidationError("incomplete request", map[string]any{"state": run.State, "runId": run.ID})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": run})
}

// AddFieldOfficers PUT /teams/:id/field-officers.
func (h *TeamsHandler) AddFieldOfficers(c *fiber.Ctx) error {
	return h.changeRoster(c, h.teams.AddFieldOfficers)
}

// RemoveFieldOfficers DELETE /teams/:id/field-officers.
func (h *TeamsHandler) RemoveFieldOfficers(c *fiber.Ctx) error {
	return h.changeRoster(c, h.teams.RemoveFieldOfficers)
}

type rosterChange func(ctx context.Context, caller service.Caller, teamID int64, officerIDs []int64) error

func (h *TeamsHandler) changeRoster(c *fiber.Ctx, change rosterChange) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	var req dto.RosterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := change(c.UserContext(), caller, id, req.FieldOfficerIDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeleteTeam DELETE /teams/:id.
func (h *TeamsHandler) DeleteTeam(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := h.teams.DeleteTeam(c.UserContext(), caller, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /teams/:id/audit.
func (h *TeamsHandler) History(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.audit.TeamHistory(c.UserContext(), caller, id, c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
