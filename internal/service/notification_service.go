package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/config"
	"github.com/gupta1123/fieldsales-teams/internal/events"
)

// NotificationService handles emitting notifications for team events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n == nil || n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTeamCreated, n.handleTeamCreated)
	n.dispatcher.Subscribe(events.EventAvpAssigned, n.handleAvpAssigned)
	n.dispatcher.Subscribe(events.EventFieldOfficersAdded, n.handleRosterChanged)
	n.dispatcher.Subscribe(events.EventFieldOfficersRemoved, n.handleRosterChanged)
	n.dispatcher.Subscribe(events.EventTeamDeleted, n.handleTeamDeleted)
}

func (n *NotificationService) handleTeamCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TeamCreated", zap.Int64("team_id", event.TeamID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAvpAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("AvpAssigned", zap.Int64("team_id", event.TeamID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRosterChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("RosterChanged",
		zap.String("event_type", string(event.Type)),
		zap.Int64("team_id", event.TeamID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTeamDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TeamDeleted", zap.Int64("team_id", event.TeamID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("team_id", event.TeamID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("team_id", event.TeamID),
		zap.String("event_type", string(event.Type)))
}
