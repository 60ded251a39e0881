package service

import (
	"context"
	"strings"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/listing"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// EmployeeService serves filtered employee listings.
type EmployeeService struct {
	crm CRM
}

// NewEmployeeService constructs the service.
func NewEmployeeService(crm CRM) *EmployeeService {
	return &EmployeeService{crm: crm}
}

// ListEmployees returns all employees, filtered and paginated.
func (s *EmployeeService) ListEmployees(ctx context.Context, caller Caller, filters domain.FilterState) (listing.Page[domain.Employee], error) {
	if !caller.Capabilities.CanViewAllTeams {
		return listing.Page[domain.Employee]{}, apperrors.NewForbidden("employee directory requires an admin, data manager or HR role")
	}
	employees, err := s.crm.GetAllEmployees(ctx, caller.Token)
	if err != nil {
		return listing.Page[domain.Employee]{}, translateUpstream(err)
	}
	return pageEmployees(employees, filters), nil
}

// FieldOfficersByCity lists the field officers based in city. An empty city
// lists every field officer for callers who can view all teams, and the
// officers the CRM scopes to the caller otherwise.
func (s *EmployeeService) FieldOfficersByCity(ctx context.Context, caller Caller, city string, filters domain.FilterState) (listing.Page[domain.Employee], error) {
	caps := caller.Capabilities
	if !caps.CanViewAllTeams && !caps.IsManager && !caps.IsCoordinator && !caps.IsAvp {
		return listing.Page[domain.Employee]{}, apperrors.NewForbidden("field officer listings require a management role")
	}
	var (
		officers []domain.Employee
		err      error
	)
	switch city = strings.TrimSpace(city); {
	case city != "":
		officers, err = s.crm.GetFieldOfficersByCity(ctx, caller.Token, city)
	case caps.CanViewAllTeams:
		officers, err = s.crm.GetAllFieldOfficers(ctx, caller.Token)
	default:
		officers, err = s.crm.GetFieldOfficers(ctx, caller.Token)
	}
	if err != nil {
		return listing.Page[domain.Employee]{}, translateUpstream(err)
	}
	return pageEmployees(officers, filters), nil
}

func pageEmployees(employees []domain.Employee, filters domain.FilterState) listing.Page[domain.Employee] {
	filters = filters.Normalized()
	filtered := listing.Apply(employees, filters)
	listing.Sort(filtered, domain.Employee.FullName)
	return listing.BuildPage(filtered, filters.Page, filters.PageSize)
}
