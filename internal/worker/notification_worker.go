package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/salon-admin-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to the event
// stream and reports which delivery channels the deployment has enabled.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()

	channels := notificationService.EnabledChannels()
	if len(channels) == 0 {
		logger.Info("notification worker started with no delivery channels; events will be logged only")
		return
	}
	logger.Info("notification worker started", zap.Strings("channels", channels))
}
