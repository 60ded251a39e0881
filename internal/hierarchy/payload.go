package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// Payload is the decoded GET /employee/team/hierarchy response.
type Payload struct {
	AvpTeams             []AvpGroup
	RegionalManagerTeams []ManagerEntry
	CoordinatorTeams     []ManagerEntry
	// Malformed counts list elements that could not be decoded at all.
	Malformed int
}

// AvpGroup is one AVP with the manager entries they oversee.
type AvpGroup struct {
	Avp      *Person
	Managers []ManagerEntry
}

// ManagerEntry is one team as seen from a particular list of the payload.
type ManagerEntry struct {
	TeamID        FlexInt
	TeamType      string
	Manager       *Person
	FieldOfficers []Person
	// Malformed counts roster elements that were not JSON objects.
	Malformed int
}

// Person is an employee-shaped record with every spelling the backend has
// been observed to use.
type Person struct {
	ID             FlexInt    `json:"id"`
	EmployeeID     FlexInt    `json:"employeeId"`
	FirstName      FlexString `json:"firstName"`
	LastName       FlexString `json:"lastName"`
	Name           FlexString `json:"name"`
	Email          FlexString `json:"email"`
	EmailID        FlexString `json:"emailId"`
	EmailAddress   FlexString `json:"emailAddress"`
	OfficialEmail  FlexString `json:"officialEmail"`
	Phone          FlexString `json:"phone"`
	PhoneNumber    FlexString `json:"phoneNumber"`
	PrimaryContact FlexString `json:"primaryContact"`
	Mobile         FlexString `json:"mobile"`
	ContactNumber  FlexString `json:"contactNumber"`
	Role           FlexString `json:"role"`
	City           FlexString `json:"city"`
	State          FlexString `json:"state"`
	Status         FlexString `json:"status"`
	AssignedCity   FlexList   `json:"assignedCity"`
	AssignedCities FlexList   `json:"assignedCities"`
	Cities         FlexList   `json:"cities"`
	TeamID         FlexInt    `json:"teamId"`
}

// DecodePayload decodes the hierarchy response. Only a body that is not a JSON
// object is an error; malformed list elements are counted and skipped.
func DecodePayload(data []byte) (Payload, error) {
	var raw struct {
		AvpTeams             []json.RawMessage `json:"avpTeams"`
		RegionalManagerTeams []json.RawMessage `json:"regionalManagerTeams"`
		CoordinatorTeams     []json.RawMessage `json:"coordinatorTeams"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Payload{}, fmt.Errorf("decode hierarchy: %w", err)
	}

	var p Payload
	for _, item := range raw.AvpTeams {
		var g AvpGroup
		if err := json.Unmarshal(item, &g); err != nil {
			p.Malformed++
			continue
		}
		p.AvpTeams = append(p.AvpTeams, g)
	}
	p.RegionalManagerTeams, p.Malformed = decodeEntries(raw.RegionalManagerTeams, p.Malformed)
	p.CoordinatorTeams, p.Malformed = decodeEntries(raw.CoordinatorTeams, p.Malformed)
	return p, nil
}

func decodeEntries(items []json.RawMessage, malformed int) ([]ManagerEntry, int) {
	out := make([]ManagerEntry, 0, len(items))
	for _, item := range items {
		var e ManagerEntry
		if err := json.Unmarshal(item, &e); err != nil {
			malformed++
			continue
		}
		out = append(out, e)
	}
	return out, malformed
}

// UnmarshalJSON accepts "managers" or "teams" for the manager list.
func (g *AvpGroup) UnmarshalJSON(data []byte) error {
	var raw struct {
		Avp      json.RawMessage `json:"avp"`
		Managers json.RawMessage `json:"managers"`
		Teams    json.RawMessage `json:"teams"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items, _ := rawList(raw.Managers)
	if len(items) == 0 {
		items, _ = rawList(raw.Teams)
	}
	g.Avp = decodePerson(raw.Avp)
	g.Managers = g.Managers[:0]
	for _, item := range items {
		var e ManagerEntry
		if err := json.Unmarshal(item, &e); err != nil {
			e = ManagerEntry{}
		}
		g.Managers = append(g.Managers, e)
	}
	return nil
}

// UnmarshalJSON accepts teamId/id and manager/officeManager spellings. A
// manager or roster of the wrong shape never fails the entry: the manager is
// left unresolved and a roster that is not a list counts as one malformed
// element.
func (e *ManagerEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		TeamID        FlexInt         `json:"teamId"`
		ID            FlexInt         `json:"id"`
		TeamType      FlexString      `json:"teamType"`
		Manager       json.RawMessage `json:"manager"`
		OfficeManager json.RawMessage `json:"officeManager"`
		FieldOfficers json.RawMessage `json:"fieldOfficers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ManagerEntry{TeamID: raw.TeamID, TeamType: string(raw.TeamType), Manager: decodePerson(raw.Manager)}
	if !e.TeamID.Valid {
		e.TeamID = raw.ID
	}
	if e.Manager == nil {
		e.Manager = decodePerson(raw.OfficeManager)
	}
	items, ok := rawList(raw.FieldOfficers)
	if !ok {
		e.Malformed++
	}
	for _, item := range items {
		var p Person
		if err := json.Unmarshal(item, &p); err != nil {
			e.Malformed++
			continue
		}
		e.FieldOfficers = append(e.FieldOfficers, p)
	}
	return nil
}

// rawList splits a JSON array into its elements. Absent and null values are
// an empty list; ok is false for any other non-array value.
func rawList(data json.RawMessage) (items []json.RawMessage, ok bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, true
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

// decodePerson returns nil for absent, null or non-object values.
func decodePerson(data json.RawMessage) *Person {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var p Person
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil
	}
	return &p
}

// FlexInt decodes an integer sent as a number or a numeric string.
type FlexInt struct {
	Value int64
	Valid bool
}

// Int returns a valid FlexInt.
func Int(v int64) FlexInt { return FlexInt{Value: v, Valid: true} }

// Positive reports whether the value is a usable backend id.
func (f FlexInt) Positive() bool { return f.Valid && f.Value > 0 }

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<62 {
			*f = FlexInt{Value: int64(t), Valid: true}
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			*f = FlexInt{Value: n, Valid: true}
		}
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

// FlexString decodes strings, numbers and booleans as text; anything else is empty.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = ""
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		*f = FlexString(t)
	case json.Number:
		*f = FlexString(t.String())
	case bool:
		*f = FlexString(strconv.FormatBool(t))
	}
	return nil
}

// FlexList decodes a JSON array of scalars or a comma-separated string.
type FlexList []string

func (f *FlexList) UnmarshalJSON(data []byte) error {
	*f = nil
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		*f = splitList(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				*f = append(*f, splitList(s)...)
			}
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DecodeEmployees decodes an employee array, skipping elements that are not
// objects or carry no usable id. skipped reports how many were left out.
func DecodeEmployees(data []byte) (employees []domain.Employee, skipped int, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode employees: %w", err)
	}
	employees = make([]domain.Employee, 0, len(raw))
	for _, item := range raw {
		var p Person
		if err := json.Unmarshal(item, &p); err != nil {
			skipped++
			continue
		}
		e, ok := p.ToEmployee()
		if !ok {
			skipped++
			continue
		}
		employees = append(employees, e)
	}
	return employees, skipped, nil
}
