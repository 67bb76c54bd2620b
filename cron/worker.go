package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"canchas/config"
	"canchas/models"
	"canchas/services/tasks"
	"canchas/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Canceller removes a reservation on the booking backend.
type Canceller interface {
	CancelReserva(ctx context.Context, token string, idReserva int) error
}

// SubmissionJournal is the part of the submission repository the worker updates.
type SubmissionJournal interface {
	GetByID(ctx context.Context, id string) (*models.SubmissionRecord, error)
	Update(ctx context.Context, record models.SubmissionRecord) error
}

// RedisOpt is the asynq connection for the compensation queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCompensationWorker runs the compensation worker in background and returns it for shutdown.
func InitCompensationWorker(api Canceller, journal SubmissionJournal, serviceToken string) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(handleExhausted(journal, logger)),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCompensateReserva, HandleCompensationTask(api, journal, serviceToken, logger))

	go monitorRedisConnection(logger)

	go func() {
		logger.Info("[CompensationWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("[CompensationWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("[CompensationWorker] max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// HandleCompensationTask cancels the reservation with the service token and closes the journal record.
func HandleCompensationTask(api Canceller, journal SubmissionJournal, serviceToken string, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.CompensationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[CompensationHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if p.IDReserva <= 0 {
			return fmt.Errorf("missing id_reserva: %w", asynq.SkipRetry)
		}

		if err := api.CancelReserva(ctx, serviceToken, p.IDReserva); err != nil {
			logger.Warn("[CompensationHandler] cancellation failed",
				zap.Int("idReserva", p.IDReserva), zap.String("submissionId", p.SubmissionID), zap.Error(err))
			return err
		}
		logger.Info("[CompensationHandler] reservation cancelled",
			zap.Int("idReserva", p.IDReserva), zap.String("submissionId", p.SubmissionID))

		markJournal(ctx, journal, p.SubmissionID, models.SubmissionCompensado, "", logger)
		return nil
	}
}

// handleExhausted marks the journal record failed once the last retry is spent.
func handleExhausted(journal SubmissionJournal, logger *zap.Logger) func(ctx context.Context, task *asynq.Task, err error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		if task.Type() != tasks.TypeCompensateReserva {
			return
		}
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried < maxRetry {
			return
		}
		var p models.CompensationPayload
		if jerr := json.Unmarshal(task.Payload(), &p); jerr != nil {
			return
		}
		logger.Error("[CompensationWorker] compensation abandoned",
			zap.Int("idReserva", p.IDReserva), zap.String("submissionId", p.SubmissionID), zap.Error(err))
		markJournal(ctx, journal, p.SubmissionID, models.SubmissionFallido, err.Error(), logger)
	}
}

func markJournal(ctx context.Context, journal SubmissionJournal, id, estado, mensaje string, logger *zap.Logger) {
	if journal == nil || id == "" {
		return
	}
	rec, err := journal.GetByID(ctx, id)
	if err != nil {
		logger.Warn("[CompensationWorker] journal record not found", zap.String("submissionId", id), zap.Error(err))
		return
	}
	rec.Stage = models.StageCompensate
	rec.Estado = estado
	if mensaje != "" {
		rec.Mensaje = mensaje
	}
	if err := journal.Update(ctx, *rec); err != nil {
		logger.Warn("[CompensationWorker] failed to update journal", zap.String("submissionId", id), zap.Error(err))
	}
}

// monitorRedisConnection pings the queue's Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("[CompensationWorker] Redis connection lost", zap.Error(err))
		}
	}
}
