package worker

import (
	"github.com/spec-kit/contracts-service/internal/events"
	"github.com/spec-kit/contracts-service/internal/service"
)

// StartWorkers registers all event-driven workers on the dispatcher.
func StartWorkers(dispatcher events.Dispatcher, notifications *service.NotificationService, cacheWorker *BalanceCacheWorker) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if cacheWorker != nil {
		cacheWorker.RegisterHandlers(dispatcher)
	}
}
