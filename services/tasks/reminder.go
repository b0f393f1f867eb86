package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"consultly/config"
	"consultly/models"
	"consultly/utils"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds an asynq task that fires at the given time.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderScheduler enqueues consultation reminders on the Redis-backed
// queue.
type ReminderScheduler struct {
	client *asynq.Client
	logger *zap.Logger
}

// NewReminderScheduler constructs a scheduler against the configured Redis
// reminder queue.
func NewReminderScheduler(logger *zap.Logger) *ReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &ReminderScheduler{client: client, logger: logger}
}

// ScheduleConsultationReminder enqueues a reminder firing one hour before
// the slot start. Bookings made inside the lead window get no reminder.
func (s *ReminderScheduler) ScheduleConsultationReminder(consultation *models.Consultation, startTime time.Time) error {
	fireAt := startTime.Add(-utils.ReminderLeadTime)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload := models.ReminderPayload{
		ConsultationID: consultation.ID,
		StartTime:      startTime.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return err
	}
	s.logger.Debug("scheduled consultation reminder",
		zap.String("consultationId", consultation.ID),
		zap.Time("fireAt", fireAt))
	return nil
}

// Close releases the underlying asynq client.
func (s *ReminderScheduler) Close() error {
	return s.client.Close()
}
