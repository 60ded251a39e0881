package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/events"
	"github.com/gupta1123/fieldsales-teams/internal/hierarchy"
	"github.com/gupta1123/fieldsales-teams/internal/listing"
	"github.com/gupta1123/fieldsales-teams/internal/observability"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// TeamService serves the normalized team board and the roster mutations.
type TeamService struct {
	crm        CRM
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TeamDependencies bundles collaborators for the team service.
type TeamDependencies struct {
	CRM        CRM
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{
		crm:        deps.CRM,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Board is everything the assignment screens derive their state from.
type Board struct {
	// Teams holds every normalized team, unscoped.
	Teams     []domain.Team
	Employees []domain.Employee
	Cities    []string
	// Dropped counts hierarchy entries the normalizer skipped.
	Dropped int
}

// PoolView is the assignment-candidate pool for one category.
type PoolView struct {
	Category               domain.Category   `json:"category"`
	AvailableManagers      []domain.Employee `json:"availableManagers"`
	AvailableFieldOfficers []domain.Employee `json:"availableFieldOfficers"`
	ClaimedFieldOfficerIDs []int64           `json:"claimedFieldOfficerIds"`
	ClaimedManagerIDs      []int64           `json:"claimedManagerIds"`
	CityCandidates         []string          `json:"cityCandidates"`
	// Avps and PlaceholderTeams feed the AVP assignment step; both are
	// only filled for the regional category.
	Avps             []domain.Employee `json:"avps,omitempty"`
	PlaceholderTeams []domain.Team     `json:"placeholderTeams,omitempty"`
	DroppedEntries   int               `json:"droppedEntries"`
}

// LoadBoard fetches the hierarchy, the employee list and the cities
// concurrently. Nothing is derived until all three have arrived.
func (s *TeamService) LoadBoard(ctx context.Context, caller Caller) (*Board, error) {
	var (
		payload   hierarchy.Payload
		employees []domain.Employee
		cities    []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payload, err = s.crm.GetHierarchy(gctx, caller.Token)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = s.crm.GetAllEmployees(gctx, caller.Token)
		return err
	})
	g.Go(func() error {
		var err error
		cities, err = s.crm.GetCities(gctx, caller.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translateUpstream(err)
	}

	result := s.normalize(payload)
	return &Board{Teams: result.Teams, Employees: employees, Cities: cities, Dropped: result.Dropped}, nil
}

// ListTeams returns the caller's visible teams, filtered and paginated.
func (s *TeamService) ListTeams(ctx context.Context, caller Caller, filters domain.FilterState) (listing.Page[domain.Team], error) {
	payload, err := s.crm.GetHierarchy(ctx, caller.Token)
	if err != nil {
		return listing.Page[domain.Team]{}, translateUpstream(err)
	}
	teams := ScopeTeams(s.normalize(payload).Teams, caller)
	filters = filters.Normalized()
	return listing.BuildPage(listing.Apply(teams, filters), filters.Page, filters.PageSize), nil
}

// GetTeam returns one visible team.
func (s *TeamService) GetTeam(ctx context.Context, caller Caller, teamID int64) (*domain.Team, error) {
	payload, err := s.crm.GetHierarchy(ctx, caller.Token)
	if err != nil {
		return nil, translateUpstream(err)
	}
	for _, t := range ScopeTeams(s.normalize(payload).Teams, caller) {
		if t.ID == teamID {
			team := t
			return &team, nil
		}
	}
	return nil, apperrors.NewNotFound("team", map[string]any{"id": teamID})
}

// Pool computes the assignment candidates for category.
func (s *TeamService) Pool(ctx context.Context, caller Caller, category domain.Category) (*PoolView, error) {
	if err := requireManage(caller); err != nil {
		return nil, err
	}
	board, err := s.LoadBoard(ctx, caller)
	if err != nil {
		return nil, err
	}
	return BuildPoolView(board, category), nil
}

// BuildPoolView derives the pool for category from a loaded board.
func BuildPoolView(board *Board, category domain.Category) *PoolView {
	pool := hierarchy.ComputeAvailablePool(board.Teams, board.Employees, category)
	view := &PoolView{
		Category:               category,
		AvailableManagers:      pool.AvailableManagers,
		AvailableFieldOfficers: pool.AvailableFieldOfficers,
		ClaimedFieldOfficerIDs: pool.ClaimedFieldOfficerIDs.Sorted(),
		ClaimedManagerIDs:      pool.ClaimedManagerIDs.Sorted(),
		CityCandidates:         hierarchy.CityCandidates(board.Cities, category),
		DroppedEntries:         board.Dropped,
	}
	if category == domain.CategoryRegional {
		view.Avps = activeWithRole(board.Employees, domain.RoleAvp)
		view.PlaceholderTeams = hierarchy.SynthesizePlaceholderTeams(
			hierarchy.UnassignedRegionalManagers(board.Teams, board.Employees))
	}
	return view
}

// AddFieldOfficers adds officers to an existing team. Officers already on the
// team are skipped; officers claimed by another team of the same category are
// refused.
func (s *TeamService) AddFieldOfficers(ctx context.Context, caller Caller, teamID int64, officerIDs []int64) error {
	if err := requireManage(caller); err != nil {
		return err
	}
	if teamID <= 0 || !validIDs(officerIDs) {
		return apperrors.NewValidationError("a team id and at least one field officer id are required", nil)
	}
	payload, err := s.crm.GetHierarchy(ctx, caller.Token)
	if err != nil {
		return translateUpstream(err)
	}
	teams := s.normalize(payload).Teams
	team, ok := findTeam(teams, teamID)
	if !ok {
		return apperrors.NewNotFound("team", map[string]any{"id": teamID})
	}

	claimed := hierarchy.ClaimedFieldOfficers(teams, team.TeamType.Category())
	var toAdd, conflicts []int64
	for _, id := range dedupeIDs(officerIDs) {
		switch {
		case team.HasFieldOfficer(id):
		case claimed.Has(id):
			conflicts = append(conflicts, id)
		default:
			toAdd = append(toAdd, id)
		}
	}
	if len(conflicts) > 0 {
		return apperrors.NewConflict("field officers already belong to another team", map[string]any{
			"fieldOfficerIds": conflicts,
			"category":        team.TeamType.Category(),
		})
	}
	if len(toAdd) == 0 {
		return nil
	}

	if err := s.crm.AddFieldOfficers(ctx, caller.Token, teamID, toAdd); err != nil {
		return translateUpstream(err)
	}
	s.publish(ctx, teamEvent(events.EventFieldOfficersAdded, caller, teamID, events.RosterChangedPayload{FieldOfficerIDs: toAdd}))
	return nil
}

// RemoveFieldOfficers removes officers from a team.
func (s *TeamService) RemoveFieldOfficers(ctx context.Context, caller Caller, teamID int64, officerIDs []int64) error {
	if err := requireManage(caller); err != nil {
		return err
	}
	if teamID <= 0 || !validIDs(officerIDs) {
		return apperrors.NewValidationError("a team id and at least one field officer id are required", nil)
	}
	ids := dedupeIDs(officerIDs)
	if err := s.crm.RemoveFieldOfficers(ctx, caller.Token, teamID, ids); err != nil {
		return translateUpstream(err)
	}
	s.publish(ctx, teamEvent(events.EventFieldOfficersRemoved, caller, teamID, events.RosterChangedPayload{FieldOfficerIDs: ids}))
	return nil
}

// DeleteTeam deletes a team. Placeholder ids are refused since nothing exists
// upstream yet.
func (s *TeamService) DeleteTeam(ctx context.Context, caller Caller, teamID int64) error {
	if err := requireManage(caller); err != nil {
		return err
	}
	ref := domain.TeamRefFromID(teamID)
	if ref.Pending() {
		return apperrors.NewValidationError("placeholder teams do not exist yet", map[string]any{"managerId": ref.ManagerID()})
	}
	if !ref.Valid() {
		return apperrors.NewValidationError("invalid team id", nil)
	}
	if err := s.crm.DeleteTeam(ctx, caller.Token, teamID); err != nil {
		return translateUpstream(err)
	}
	s.publish(ctx, teamEvent(events.EventTeamDeleted, caller, teamID, nil))
	return nil
}

// AssignCity tags a manager with a city. Cities are not exclusive, several
// managers may carry the same one.
func (s *TeamService) AssignCity(ctx context.Context, caller Caller, employeeID int64, city string) error {
	return s.changeCity(ctx, caller, employeeID, city, true)
}

// RemoveCity removes a city tag from a manager.
func (s *TeamService) RemoveCity(ctx context.Context, caller Caller, employeeID int64, city string) error {
	return s.changeCity(ctx, caller, employeeID, city, false)
}

func (s *TeamService) changeCity(ctx context.Context, caller Caller, employeeID int64, city string, assign bool) error {
	if err := requireManage(caller); err != nil {
		return err
	}
	if employeeID <= 0 || city == "" {
		return apperrors.NewValidationError("an employee id and a city are required", nil)
	}
	call, eventType := s.crm.RemoveCity, events.EventCityRemoved
	if assign {
		call, eventType = s.crm.AssignCity, events.EventCityAssigned
	}
	if err := call(ctx, caller.Token, employeeID, city); err != nil {
		return translateUpstream(err)
	}
	event := events.NewEvent(eventType, caller.actor(), events.CityChangedPayload{City: city})
	event.EmployeeID = employeeID
	s.publish(ctx, event)
	return nil
}

func (s *TeamService) normalize(payload hierarchy.Payload) hierarchy.Result {
	result := hierarchy.Normalize(payload)
	if result.Dropped > 0 {
		s.metrics.RecordDropped(result.Dropped)
		s.logger.Warn("dropped malformed hierarchy entries", zap.Int("dropped", result.Dropped))
	}
	return result
}

func (s *TeamService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func teamEvent(eventType events.EventType, caller Caller, teamID int64, payload interface{}) events.Event {
	event := events.NewEvent(eventType, caller.actor(), payload)
	event.TeamID = teamID
	return event
}

func findTeam(teams []domain.Team, id int64) (domain.Team, bool) {
	i := sort.Search(len(teams), func(i int) bool { return teams[i].ID >= id })
	if i < len(teams) && teams[i].ID == id {
		return teams[i], true
	}
	return domain.Team{}, false
}

func activeWithRole(employees []domain.Employee, role domain.RoleTag) []domain.Employee {
	out := []domain.Employee{}
	for _, e := range employees {
		if e.ID > 0 && !e.Deleted() && e.RoleTag() == role {
			out = append(out, e)
		}
	}
	return out
}
