package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"carenow/config"
	"carenow/models"
	"carenow/services/notification"
	"carenow/services/tasks"

	"github.com/hibiken/asynq"
)

// StartReminderWorker runs the async reminder worker in the background.
func StartReminderWorker(notifSvc notification.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempt, maxAttempts, err)
				if attempt == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderWorker] invalid payload: %v", err)
			return err
		}

		data := map[string]string{
			"type":      "reminder",
			"bookingId": p.BookingID,
			"fireDate":  p.FireDate,
		}

		var err error
		switch p.Target {
		case "client":
			err = notifSvc.SendUserPush(ctx, p.AccountID, p.Title, p.Body, data)
		case "partner":
			err = notifSvc.SendPartnerPush(ctx, p.AccountID, p.Title, p.Body, data)
		default:
			log.Printf("[ReminderWorker] unknown target type: %s", p.Target)
			return nil
		}

		if err != nil {
			log.Printf("[ReminderWorker] failed to send reminder for booking %s: %v", p.BookingID, err)
		}
		return err
	}
}
