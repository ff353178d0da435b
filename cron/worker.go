package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"homely/config"
	"homely/models"
	"homely/services/lifecycle"
	"homely/services/negotiation"
	"homely/services/tasks"

	"github.com/hibiken/asynq"
)

// InitWorker runs the background reconciliation worker. It owns the two
// repair jobs the request/booking engines defer: re-running the request flip
// after bid acceptance, and retrying successor creation for completed
// recurring bookings.
func InitWorker(negotiationSvc negotiation.NegotiationService, lifecycleSvc lifecycle.LifecycleService) {
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
	mux.HandleFunc(tasks.TypeReconcileAccept, handleReconcileAccept(negotiationSvc))
	mux.HandleFunc(tasks.TypeRecurrenceRetry, handleRecurrenceRetry(lifecycleSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] starting reconciliation worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReconcileAccept(svc negotiation.NegotiationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReconcileAcceptPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[Worker] invalid reconcile payload: %v", err)
			return err
		}
		return svc.ReconcileAccept(p.RequestID, p.ProviderID)
	}
}

func handleRecurrenceRetry(svc lifecycle.LifecycleService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.RecurrencePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[Worker] invalid recurrence payload: %v", err)
			return err
		}
		return svc.RetryRecurrence(p.BookingID)
	}
}
