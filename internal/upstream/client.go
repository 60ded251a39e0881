// Package upstream is the HTTP client for the CRM backend that owns employees,
// teams and cities. Every call forwards the caller's bearer token.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/config"
	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/hierarchy"
	"github.com/gupta1123/fieldsales-teams/internal/observability"
)

const maxBodyBytes = 16 << 20

// Client calls the CRM backend.
type Client struct {
	baseURL    string
	http       *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
	retries    int
	retryDelay time.Duration
}

// NewClient builds a client from configuration.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		http:       &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
		metrics:    metrics,
		retries:    cfg.ReadRetryAttempts,
		retryDelay: cfg.ReadRetryDelay(),
	}
}

// CreateTeamRequest is the body of POST /employee/team/create.
type CreateTeamRequest struct {
	OfficeManagerID int64           `json:"officeManagerId"`
	FieldOfficerIDs []int64         `json:"fieldOfficerIds"`
	TeamType        domain.TeamType `json:"teamType"`
}

// GetHierarchy fetches and decodes the team hierarchy.
func (c *Client) GetHierarchy(ctx context.Context, token string) (hierarchy.Payload, error) {
	body, err := c.do(ctx, "get_hierarchy", http.MethodGet, "/employee/team/hierarchy", nil, token, nil)
	if err != nil {
		return hierarchy.Payload{}, err
	}
	return hierarchy.DecodePayload(body)
}

// GetAllEmployees fetches every employee.
func (c *Client) GetAllEmployees(ctx context.Context, token string) ([]domain.Employee, error) {
	return c.employees(ctx, "get_all_employees", "/employee/getAll", nil, token)
}

// GetAllFieldOfficers fetches every field officer.
func (c *Client) GetAllFieldOfficers(ctx context.Context, token string) ([]domain.Employee, error) {
	return c.employees(ctx, "get_all_field_officers", "/employee/getAllFieldOfficers", nil, token)
}

// GetFieldOfficers fetches the field officers visible to the caller.
func (c *Client) GetFieldOfficers(ctx context.Context, token string) ([]domain.Employee, error) {
	return c.employees(ctx, "get_field_officers", "/employee/getFieldOfficer", nil, token)
}

// GetFieldOfficersByCity fetches the field officers based in city.
func (c *Client) GetFieldOfficersByCity(ctx context.Context, token, city string) ([]domain.Employee, error) {
	return c.employees(ctx, "get_field_officers_by_city", "/employee/getFieldOfficerByCity", url.Values{"city": {city}}, token)
}

// GetCities fetches the known city names. Transient failures are retried a
// fixed number of times.
func (c *Client) GetCities(ctx context.Context, token string) ([]string, error) {
	var body []byte
	err := c.retry(ctx, func() error {
		var err error
		body, err = c.do(ctx, "get_cities", http.MethodGet, "/employee/getCities", nil, token, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	var cities []string
	if err := json.Unmarshal(body, &cities); err != nil {
		return nil, fmt.Errorf("decode cities: %w", err)
	}
	return cities, nil
}

// AssignCity tags employeeID with city.
func (c *Client) AssignCity(ctx context.Context, token string, employeeID int64, city string) error {
	q := url.Values{"id": {strconv.FormatInt(employeeID, 10)}, "city": {city}}
	_, err := c.do(ctx, "assign_city", http.MethodPut, "/employee/assignCity", q, token, nil)
	return err
}

// RemoveCity removes the city tag from employeeID.
func (c *Client) RemoveCity(ctx context.Context, token string, employeeID int64, city string) error {
	q := url.Values{"id": {strconv.FormatInt(employeeID, 10)}, "city": {city}}
	_, err := c.do(ctx, "remove_city", http.MethodPut, "/employee/removeCity", q, token, nil)
	return err
}

// CreateTeam creates a team and returns the id the backend assigned.
func (c *Client) CreateTeam(ctx context.Context, token string, req CreateTeamRequest) (int64, error) {
	if req.FieldOfficerIDs == nil {
		req.FieldOfficerIDs = []int64{}
	}
	body, err := c.do(ctx, "create_team", http.MethodPost, "/employee/team/create", nil, token, req)
	if err != nil {
		return 0, err
	}
	id, ok := extractTeamID(body)
	if !ok {
		return 0, fmt.Errorf("create_team: no team id in response %q", truncate(body, 200))
	}
	return id, nil
}

// EditAvp assigns avpID to teamID.
func (c *Client) EditAvp(ctx context.Context, token string, teamID, avpID int64) error {
	q := url.Values{"id": {strconv.FormatInt(teamID, 10)}}
	_, err := c.do(ctx, "edit_avp", http.MethodPut, "/employee/team/editAvp", q, token, map[string]int64{"avp": avpID})
	return err
}

// AddFieldOfficers adds officers to teamID.
func (c *Client) AddFieldOfficers(ctx context.Context, token string, teamID int64, officerIDs []int64) error {
	q := url.Values{"id": {strconv.FormatInt(teamID, 10)}}
	_, err := c.do(ctx, "add_field_officers", http.MethodPut, "/employee/team/addFieldOfficer", q, token, rosterBody(officerIDs))
	return err
}

// RemoveFieldOfficers removes officers from teamID.
func (c *Client) RemoveFieldOfficers(ctx context.Context, token string, teamID int64, officerIDs []int64) error {
	q := url.Values{"id": {strconv.FormatInt(teamID, 10)}}
	_, err := c.do(ctx, "remove_field_officers", http.MethodDelete, "/employee/team/deleteFieldOfficer", q, token, rosterBody(officerIDs))
	return err
}

// DeleteTeam deletes teamID.
func (c *Client) DeleteTeam(ctx context.Context, token string, teamID int64) error {
	q := url.Values{"id": {strconv.FormatInt(teamID, 10)}}
	_, err := c.do(ctx, "delete_team", http.MethodDelete, "/employee/team/delete", q, token, nil)
	return err
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

func rosterBody(ids []int64) map[string][]int64 {
	if ids == nil {
		ids = []int64{}
	}
	return map[string][]int64{"fieldOfficers": ids}
}

func (c *Client) employees(ctx context.Context, op, path string, q url.Values, token string) ([]domain.Employee, error) {
	body, err := c.do(ctx, op, http.MethodGet, path, q, token, nil)
	if err != nil {
		return nil, err
	}
	employees, skipped, err := hierarchy.DecodeEmployees(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed employees", zap.String("op", op), zap.Int("skipped", skipped))
	}
	return employees, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, token string, payload any) ([]byte, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(op, 0, time.Since(start))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.RecordUpstream(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("upstream rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(body, 500)))
		return nil, newError(op, resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	attempts := c.retries
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return err
}

// extractTeamID reads the id from a create response, which is either a bare
// number or an object with "id" or "teamId".
func extractTeamID(body []byte) (int64, bool) {
	var bare hierarchy.FlexInt
	if err := json.Unmarshal(body, &bare); err == nil && bare.Positive() {
		return bare.Value, true
	}
	var obj struct {
		ID     hierarchy.FlexInt `json:"id"`
		TeamID hierarchy.FlexInt `json:"teamId"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0, false
	}
	if obj.ID.Positive() {
		return obj.ID.Value, true
	}
	if obj.TeamID.Positive() {
		return obj.TeamID.Value, true
	}
	return 0, false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
