package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/service"
)

// EmployeesHandler manages employee listing and city endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
	teams     *service.TeamService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService, teams *service.TeamService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees, teams: teams}
}

// ListEmployees GET /employees.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	filters, err := parseFilterQuery(c, "role", "status", "district", "state")
	if err != nil {
		return err
	}
	page, err := h.employees.ListEmployees(c.UserContext(), caller, filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": page.Items, "meta": pageMeta(page)})
}

// ListFieldOfficers GET /employees/field-officers?city=.
func (h *EmployeesHandler) ListFieldOfficers(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	filters, err := parseFilterQuery(c, "status", "district")
	if err != nil {
		return err
	}
	page, err := h.employees.FieldOfficersByCity(c.UserContext(), caller, c.Query("city"), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": page.Items, "meta": pageMeta(page)})
}

// AssignCity PUT /employees/:id/cities/:city.
func (h *EmployeesHandler) AssignCity(c *fiber.Ctx) error {
	return h.changeCity(c, true)
}

// RemoveCity DELETE /employees/:id/cities/:city.
func (h *EmployeesHandler) RemoveCity(c *fiber.Ctx) error {
	return h.changeCity(c, false)
}

func (h *EmployeesHandler) changeCity(c *fiber.Ctx, assign bool) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	city := c.Params("city")
	if assign {
		err = h.teams.AssignCity(c.UserContext(), caller, id, city)
	} else {
		err = h.teams.RemoveCity(c.UserContext(), caller, id, city)
	}
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
