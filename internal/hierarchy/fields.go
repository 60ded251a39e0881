package hierarchy

import (
	"strconv"
	"strings"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// ToEmployee resolves a Person into an Employee. ok is false when the record
// has no usable id.
func (p *Person) ToEmployee() (domain.Employee, bool) {
	if p == nil {
		return domain.Employee{}, false
	}
	id := p.ID
	if !id.Positive() {
		id = p.EmployeeID
	}
	if !id.Positive() {
		return domain.Employee{}, false
	}

	first, last := p.names()
	e := domain.Employee{
		ID:           id.Value,
		FirstName:    first,
		LastName:     last,
		Role:         strings.TrimSpace(string(p.Role)),
		Email:        firstNonEmpty(p.Email, p.EmailID, p.EmailAddress, p.OfficialEmail),
		Phone:        p.phone(),
		City:         strings.TrimSpace(string(p.City)),
		State:        strings.TrimSpace(string(p.State)),
		Status:       domain.ParseEmployeeStatus(string(p.Status)),
		AssignedCity: p.assignedCities(),
	}
	if p.TeamID.Positive() {
		teamID := p.TeamID.Value
		e.TeamID = &teamID
	}
	return e, true
}

// ToFieldOfficer resolves a roster entry.
func (p *Person) ToFieldOfficer() (domain.FieldOfficer, bool) {
	e, ok := p.ToEmployee()
	if !ok {
		return domain.FieldOfficer{}, false
	}
	return domain.FieldOfficer{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		City:      e.City,
		Status:    e.Status,
	}, true
}

func (p *Person) names() (string, string) {
	first := strings.TrimSpace(string(p.FirstName))
	last := strings.TrimSpace(string(p.LastName))
	if first != "" || last != "" {
		return first, last
	}
	parts := strings.Fields(string(p.Name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// phone takes the first non-empty candidate; a candidate without digits is absent.
func (p *Person) phone() *int64 {
	raw := firstNonEmpty(p.Phone, p.PhoneNumber, p.PrimaryContact, p.Mobile, p.ContactNumber)
	if raw == "" {
		return nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func (p *Person) assignedCities() []string {
	merged := MergeCities(p.AssignedCity, p.AssignedCities, p.Cities)
	if len(merged) == 0 {
		if city := strings.TrimSpace(string(p.City)); city != "" {
			return []string{city}
		}
		return []string{}
	}
	return merged
}

// MergeCities concatenates the lists in order, dropping blanks and
// case-insensitive duplicates. The first spelling wins.
func MergeCities(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range lists {
		for _, city := range list {
			city = strings.TrimSpace(city)
			if city == "" {
				continue
			}
			key := strings.ToLower(city)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, city)
		}
	}
	return out
}

func firstNonEmpty(values ...FlexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}
