package domain

import (
	"strconv"
	"time"
)

// SearchFields lists the values matched by free-text search.
func (e Employee) SearchFields() []string {
	fields := []string{e.FirstName, e.LastName, e.FullName(), e.Email, e.Role, e.City, e.State}
	fields = append(fields, e.AssignedCity...)
	if e.Phone != nil {
		fields = append(fields, strconv.FormatInt(*e.Phone, 10))
	}
	return fields
}

// FilterValues exposes role, status, district, state and employee attributes.
func (e Employee) FilterValues(key string) []string {
	switch key {
	case "role":
		return []string{string(e.RoleTag())}
	case "status":
		return []string{string(e.Status)}
	case "district", "city":
		return append([]string{e.City}, e.AssignedCity...)
	case "state":
		return []string{e.State}
	case "employee":
		return []string{strconv.FormatInt(e.ID, 10)}
	default:
		return nil
	}
}

// FilterDate is not defined for employees.
func (e Employee) FilterDate() (time.Time, bool) {
	return time.Time{}, false
}

// SearchFields covers lead, AVP and roster names plus the lead's cities.
func (t Team) SearchFields() []string {
	fields := t.OfficeManager.SearchFields()
	if t.Avp != nil {
		fields = append(fields, t.Avp.FullName())
	}
	for _, fo := range t.FieldOfficers {
		fields = append(fields, fo.FirstName+" "+fo.LastName, fo.City)
	}
	return fields
}

// FilterValues exposes teamType, district, manager, avp and employee attributes.
func (t Team) FilterValues(key string) []string {
	switch key {
	case "teamType":
		return []string{string(t.TeamType)}
	case "district", "city":
		return t.OfficeManager.FilterValues("district")
	case "manager":
		return []string{strconv.FormatInt(t.OfficeManager.ID, 10)}
	case "avp":
		if t.Avp == nil {
			return []string{"none"}
		}
		return []string{strconv.FormatInt(t.Avp.ID, 10)}
	case "employee":
		out := make([]string, 0, len(t.FieldOfficers))
		for _, fo := range t.FieldOfficers {
			out = append(out, strconv.FormatInt(fo.ID, 10))
		}
		return out
	default:
		return nil
	}
}

// FilterDate is not defined for teams.
func (t Team) FilterDate() (time.Time, bool) {
	return time.Time{}, false
}
