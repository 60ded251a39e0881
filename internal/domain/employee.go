package domain

import "strings"

// EmployeeStatus represents the lifecycle state reported by the CRM backend.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusDeleted  EmployeeStatus = "deleted"
)

// ParseEmployeeStatus lowercases and validates a raw status; empty and unknown
// values are treated as active.
func ParseEmployeeStatus(raw string) EmployeeStatus {
	switch EmployeeStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case EmployeeStatusInactive:
		return EmployeeStatusInactive
	case EmployeeStatusDeleted:
		return EmployeeStatusDeleted
	default:
		return EmployeeStatusActive
	}
}

// Employee is a read-only snapshot of a CRM employee record.
type Employee struct {
	ID           int64          `json:"id"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Role         string         `json:"role"`
	Email        string         `json:"email,omitempty"`
	Phone        *int64         `json:"phone,omitempty"`
	City         string         `json:"city,omitempty"`
	State        string         `json:"state,omitempty"`
	Status       EmployeeStatus `json:"status"`
	AssignedCity []string       `json:"assignedCity"`
	TeamID       *int64         `json:"teamId,omitempty"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// RoleTag resolves the employee's free-text role.
func (e Employee) RoleTag() RoleTag {
	return NormalizeRole(e.Role)
}

// Deleted reports whether the backend marked the employee as deleted.
func (e Employee) Deleted() bool {
	return e.Status == EmployeeStatusDeleted
}

// HasTeam reports whether the backend resolved a positive team id.
func (e Employee) HasTeam() bool {
	return e.TeamID != nil && *e.TeamID > 0
}
