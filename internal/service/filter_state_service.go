package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/repository"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

var screenPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// FilterStateService loads and saves a caller's list filters per screen.
type FilterStateService struct {
	repo   repository.FilterStateRepository
	logger *zap.Logger
}

// NewFilterStateService constructs the service.
func NewFilterStateService(repo repository.FilterStateRepository, logger *zap.Logger) *FilterStateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterStateService{repo: repo, logger: logger}
}

// Load returns the saved filters for screen, or the defaults when nothing
// usable was saved.
func (s *FilterStateService) Load(ctx context.Context, caller Caller, screen string) (domain.FilterState, error) {
	if err := validateScreen(screen); err != nil {
		return domain.FilterState{}, err
	}
	state, err := s.repo.Get(ctx, caller.EmployeeID, screen)
	if errors.Is(err, repository.ErrFilterStateNotFound) {
		return domain.NewFilterState(), nil
	}
	if err != nil {
		s.logger.Warn("filter state unavailable", zap.String("screen", screen), zap.Error(err))
		return domain.NewFilterState(), nil
	}
	return state.Normalized(), nil
}

// Save stores the normalized filters and returns them.
func (s *FilterStateService) Save(ctx context.Context, caller Caller, screen string, state domain.FilterState) (domain.FilterState, error) {
	if err := validateScreen(screen); err != nil {
		return domain.FilterState{}, err
	}
	if state.From != nil && state.To != nil && domain.CalendarDate(*state.From).After(domain.CalendarDate(*state.To)) {
		return domain.FilterState{}, apperrors.NewValidationError("from must not be after to", nil)
	}
	state = state.Normalized()
	if err := s.repo.Save(ctx, caller.EmployeeID, screen, state); err != nil {
		return domain.FilterState{}, apperrors.NewInternalError(err)
	}
	return state, nil
}

// Reset forgets the saved filters for screen.
func (s *FilterStateService) Reset(ctx context.Context, caller Caller, screen string) error {
	if err := validateScreen(screen); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, caller.EmployeeID, screen); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func validateScreen(screen string) error {
	if !screenPattern.MatchString(screen) {
		return apperrors.NewValidationError("invalid screen name", map[string]any{"screen": screen})
	}
	return nil
}
