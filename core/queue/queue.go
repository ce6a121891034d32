package queue

import (
	"encoding/json"
	"fmt"

	"coach-portal-api/core/constants"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// CalendarSyncPayload asks the worker to push bookings to a user's connected
// calendars. An empty Provider means every connected provider.
type CalendarSyncPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Provider string    `json:"provider,omitempty"`
}

// EmailSendPayload asks the worker to render and send a templated email.
type EmailSendPayload struct {
	To       []string           `json:"to"`
	Subject  string             `json:"subject"`
	Template string             `json:"template"`
	Data     utils.TemplateData `json:"data"`
}

// Client wraps the asynq client with typed enqueue helpers.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueCalendarSync schedules one background sync run. Tasks are not
// retried by asynq; the provider upserts are idempotent so the next booking
// change converges the calendar anyway.
func (c *Client) EnqueueCalendarSync(payload CalendarSyncPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	task := asynq.NewTask(constants.TaskCalendarSync, data)
	info, err := c.client.Enqueue(task, asynq.Queue(constants.QueueSync), asynq.MaxRetry(0))
	if err != nil {
		logger.Error("Queue:EnqueueCalendarSync:Error", "error", err, "user_id", payload.UserID)
		return err
	}

	logger.Info("Queue:EnqueueCalendarSync:Enqueued", "task_id", info.ID, "user_id", payload.UserID, "provider", payload.Provider)
	return nil
}

func (c *Client) EnqueueEmail(payload EmailSendPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	task := asynq.NewTask(constants.TaskEmailSend, data)
	info, err := c.client.Enqueue(task, asynq.Queue(constants.QueueDefault), asynq.MaxRetry(3))
	if err != nil {
		logger.Error("Queue:EnqueueEmail:Error", "error", err)
		return err
	}

	logger.Info("Queue:EnqueueEmail:Enqueued", "task_id", info.ID, "subject", payload.Subject)
	return nil
}
