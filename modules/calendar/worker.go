package calendar

import (
	"context"
	"encoding/json"

	"coach-portal-api/core/logger"
	"coach-portal-api/core/queue"
	"coach-portal-api/modules/calendar/repository"
	"coach-portal-api/modules/calendar/service"

	"github.com/hibiken/asynq"
)

// SyncWorker runs background calendar pushes enqueued after booking changes.
type SyncWorker struct {
	service service.CalendarService
	repo    repository.CalendarRepository
}

func NewSyncWorker(service service.CalendarService, repo repository.CalendarRepository) *SyncWorker {
	return &SyncWorker{service: service, repo: repo}
}

// HandleSyncTask syncs one provider when the payload names it, otherwise every
// provider the user has connected. Failures are logged and swallowed: a retry
// would only re-run upserts that the next booking change triggers anyway.
func (w *SyncWorker) HandleSyncTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.CalendarSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("SyncWorker:HandleSyncTask bad payload", "error", err)
		return nil
	}

	providers := []string{payload.Provider}
	if payload.Provider == "" {
		connections, err := w.repo.GetConnectionsByUserID(ctx, payload.UserID)
		if err != nil {
			logger.Error("SyncWorker:HandleSyncTask failed to load connections", "user_id", payload.UserID, "error", err)
			return nil
		}
		providers = providers[:0]
		for _, conn := range connections {
			providers = append(providers, conn.Provider)
		}
	}

	for _, provider := range providers {
		result, appErr := w.service.Sync(ctx, payload.UserID, provider)
		if appErr != nil {
			logger.Error("SyncWorker:HandleSyncTask sync failed", "user_id", payload.UserID, "provider", provider, "error", appErr)
			continue
		}
		logger.Info("SyncWorker:HandleSyncTask synced", "user_id", payload.UserID, "provider", provider, "pushed", result.Pushed, "errors", result.Errors)
	}
	return nil
}
