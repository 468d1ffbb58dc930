package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/salon-admin-service/internal/config"
	"github.com/spec-kit/salon-admin-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Email and SMS delivery are stubs: the deployment currently runs with both
// channels disabled, but the subscription seam stays in place.
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

// EnabledChannels names the delivery channels the configuration turns on.
func (n *NotificationService) EnabledChannels() []string {
	var channels []string
	if strings.TrimSpace(n.cfg.EmailFrom) != "" {
		channels = append(channels, "email")
	}
	if strings.TrimSpace(n.cfg.SMSGatewayURL) != "" {
		channels = append(channels, "sms")
	}
	return channels
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffCreated, n.handleStaffCreated)
	n.dispatcher.Subscribe(events.EventStaffDeleted, n.handleStaffDeleted)
	n.dispatcher.Subscribe(events.EventOTPRequested, n.handleOTPRequested)
}

func (n *NotificationService) handleStaffCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffCreated", zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	n.sendSMSStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStaffDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffDeleted", zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleOTPRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("OTPRequested", zap.Any("payload", event.Payload))
	n.sendSMSStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendSMSStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.SMSGatewayURL) == "" {
		return
	}
	n.logger.Debug("sendSMSStub",
		zap.String("gateway", n.cfg.SMSGatewayURL),
		zap.String("event_type", string(event.Type)))
}
