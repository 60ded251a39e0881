package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CodeTeamHasNoMembers is the structured code for an AVP assignment to a team
// whose manager has no field officers.
const CodeTeamHasNoMembers = "TEAM_HAS_NO_MEMBERS"

// teamWithoutMembersMarkers are the plain-text messages the backend returns for
// the same condition when it sends no code.
var teamWithoutMembersMarkers = []string{
	"id must not be null",
	"given id must not be null",
}

// Error is a non-2xx response from the CRM backend.
type Error struct {
	Op     string
	Status int
	// Body is the response body, verbatim.
	Body string
	// Code is the structured error code, when the body was a JSON object carrying one.
	Code string
}

func (e *Error) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, body)
}

// Message is the text to show a user: the body, or the status when empty.
func (e *Error) Message() string {
	if msg := extractMessage(e.Body); msg != "" {
		return msg
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func newError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status, Body: string(body)}
	var structured struct {
		Code      string `json:"code"`
		ErrorCode string `json:"errorCode"`
	}
	if json.Unmarshal(body, &structured) == nil {
		e.Code = structured.Code
		if e.Code == "" {
			e.Code = structured.ErrorCode
		}
	}
	return e
}

func extractMessage(body string) string {
	body = strings.TrimSpace(body)
	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(body), &structured) == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}
	return body
}

// IsTeamWithoutMembers reports whether err is the backend refusing an AVP
// assignment because the team has no members. The structured code is checked
// first; the message markers are the fallback.
func IsTeamWithoutMembers(err error) bool {
	var ue *Error
	if !errors.As(err, &ue) {
		return false
	}
	if ue.Code != "" {
		return ue.Code == CodeTeamHasNoMembers
	}
	body := strings.ToLower(ue.Body)
	for _, marker := range teamWithoutMembersMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// IsTransient reports whether retrying err could succeed.
func IsTransient(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status >= 500 || ue.Status == 429
	}
	return err != nil
}
