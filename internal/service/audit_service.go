package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/events"
	"github.com/gupta1123/fieldsales-teams/internal/repository"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// AuditService records every team mutation event.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, repo: repo, logger: logger}
}

// RegisterHandlers subscribes to every team event.
func (a *AuditService) RegisterHandlers() {
	if a == nil || a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

// record never fails the publisher; a lost audit row is logged.
func (a *AuditService) record(ctx context.Context, event events.Event) error {
	entry, err := auditEntry(event)
	if err == nil {
		err = a.repo.Create(ctx, &entry)
	}
	if err != nil {
		a.logger.Error("audit write failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// TeamHistory returns the latest audit entries for a team.
func (a *AuditService) TeamHistory(ctx context.Context, caller Caller, teamID int64, limit int) ([]domain.AuditEntry, error) {
	if !caller.Capabilities.CanViewAllTeams {
		return nil, apperrors.NewForbidden("team history requires an admin, data manager or HR role")
	}
	entries, err := a.repo.ListByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

func auditEntry(event events.Event) (domain.AuditEntry, error) {
	payload := json.RawMessage("{}")
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return domain.AuditEntry{}, err
		}
		payload = raw
	}
	entry := domain.AuditEntry{
		ID:         event.ID,
		EventType:  string(event.Type),
		ActorID:    event.Actor.EmployeeID,
		ActorRole:  event.Actor.Role,
		Payload:    payload,
		OccurredAt: event.Timestamp,
	}
	if event.TeamID != 0 {
		id := event.TeamID
		entry.TeamID = &id
	}
	if event.EmployeeID != 0 {
		id := event.EmployeeID
		entry.EmployeeID = &id
	}
	return entry, nil
}
