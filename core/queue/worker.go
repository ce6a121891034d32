package queue

import (
	"context"
	"encoding/json"

	"coach-portal-api/core/logger"
	"coach-portal-api/core/utils"

	"github.com/hibiken/asynq"
)

// HandleEmailSendTask renders and sends one templated email. Returning the
// error lets asynq retry transient SMTP failures.
func HandleEmailSendTask(ctx context.Context, task *asynq.Task) error {
	var payload EmailSendPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Queue:HandleEmailSendTask bad payload", "error", err)
		return nil
	}

	templateName := payload.Template
	if templateName == "" {
		templateName = "booking_update"
	}

	if err := utils.SendTemplateEmailFromTemplatesDir(payload.To, payload.Subject, templateName+".html", payload.Data); err != nil {
		logger.Error("Queue:HandleEmailSendTask send failed", "subject", payload.Subject, "error", err)
		return err
	}
	logger.Info("Queue:HandleEmailSendTask sent", "subject", payload.Subject)
	return nil
}
