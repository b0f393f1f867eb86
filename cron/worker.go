package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"consultly/config"
	consultationRepo "consultly/database/repository/consultation"
	"consultly/models"
	"consultly/services/notification"
	"consultly/services/tasks"
)

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(repo consultationRepo.ConsultationRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(repo, notifSvc))

	// Start async worker with retry logic.
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(repo consultationRepo.ConsultationRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		consultation, err := repo.GetByID(ctx, p.ConsultationID)
		if err != nil {
			// Gone or unreadable; a reminder for it is pointless either way.
			log.Printf("[ReminderHandler] consultation %s not found: %v", p.ConsultationID, err)
			return nil
		}

		// Reminders only make sense while the session is still on.
		if consultation.Status.Terminal() {
			return nil
		}

		notifSvc.OnReminder(ctx, consultation)
		return nil
	}
}
