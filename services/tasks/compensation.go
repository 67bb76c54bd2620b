package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"canchas/models"

	"github.com/hibiken/asynq"
)

const TypeCompensateReserva = "reserva:compensar"

// NewCompensationTask builds the retryable cancellation of a reservation left behind by a failed submission.
func NewCompensationTask(payload models.CompensationPayload, maxRetry int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCompensateReserva, b)
	opts := []asynq.Option{asynq.MaxRetry(maxRetry)}
	if payload.SubmissionID != "" {
		opts = append(opts, asynq.TaskID("compensar:"+payload.SubmissionID))
	}
	return task, opts, nil
}

// Enqueuer is the subset of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CompensationQueue hands failed cancellations to the background worker.
type CompensationQueue struct {
	Client   Enqueuer
	MaxRetry int
}

func (q *CompensationQueue) EnqueueCompensation(ctx context.Context, payload models.CompensationPayload) error {
	task, opts, err := NewCompensationTask(payload, q.MaxRetry)
	if err != nil {
		return fmt.Errorf("failed to build compensation task: %w", err)
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue compensation: %w", err)
	}
	return nil
}
