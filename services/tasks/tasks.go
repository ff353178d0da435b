package tasks

import (
	"encoding/json"
	"time"

	"homely/config"
	"homely/models"

	"github.com/hibiken/asynq"
)

const (
	// TypeReconcileAccept re-runs the request flip after bid acceptance.
	TypeReconcileAccept = "negotiation:reconcile-accept"
	// TypeRecurrenceRetry retries successor creation for a completed
	// recurring booking.
	TypeRecurrenceRetry = "booking:recurrence-retry"
)

// Enqueuer hands work to the background worker.
type Enqueuer interface {
	EnqueueReconcileAccept(payload models.ReconcileAcceptPayload) error
	EnqueueRecurrenceRetry(payload models.RecurrencePayload) error
}

// AsynqEnqueuer is the production Enqueuer backed by the asynq Redis queue.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// NewAsynqEnqueuer builds an enqueuer against the configured queue Redis DB.
func NewAsynqEnqueuer() *AsynqEnqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqEnqueuer{client: client}
}

// EnqueueReconcileAccept schedules an accept-bid reconciliation with retries.
func (e *AsynqEnqueuer) EnqueueReconcileAccept(payload models.ReconcileAcceptPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReconcileAccept, b)
	_, err = e.client.Enqueue(task, asynq.MaxRetry(10), asynq.ProcessIn(5*time.Second))
	return err
}

// EnqueueRecurrenceRetry schedules a recurrence retry for a completed booking.
func (e *AsynqEnqueuer) EnqueueRecurrenceRetry(payload models.RecurrencePayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeRecurrenceRetry, b)
	_, err = e.client.Enqueue(task, asynq.MaxRetry(10), asynq.ProcessIn(5*time.Second))
	return err
}

// Close releases the underlying queue connection.
func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
