package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"canchas/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	if r.err != nil {
		return nil, r.err
	}
	return &asynq.TaskInfo{ID: "t1"}, nil
}

func TestEnqueueCompensation(t *testing.T) {
	rec := &recordingEnqueuer{}
	q := &CompensationQueue{Client: rec, MaxRetry: 7}

	err := q.EnqueueCompensation(context.Background(), models.CompensationPayload{SubmissionID: "s1", IDReserva: 42})
	require.NoError(t, err)
	require.Len(t, rec.tasks, 1)
	assert.Equal(t, TypeCompensateReserva, rec.tasks[0].Type())

	var p models.CompensationPayload
	require.NoError(t, json.Unmarshal(rec.tasks[0].Payload(), &p))
	assert.Equal(t, 42, p.IDReserva)

	var maxRetry, taskID bool
	for _, o := range rec.opts[0] {
		switch o.Type() {
		case asynq.MaxRetryOpt:
			maxRetry = o.Value() == 7
		case asynq.TaskIDOpt:
			taskID = o.Value() == "compensar:s1"
		}
	}
	assert.True(t, maxRetry)
	assert.True(t, taskID)
}

func TestEnqueueCompensationDuplicateIsNotAnError(t *testing.T) {
	q := &CompensationQueue{Client: &recordingEnqueuer{err: asynq.ErrTaskIDConflict}}
	assert.NoError(t, q.EnqueueCompensation(context.Background(), models.CompensationPayload{SubmissionID: "s1", IDReserva: 1}))
}

func TestEnqueueCompensationFailure(t *testing.T) {
	q := &CompensationQueue{Client: &recordingEnqueuer{err: errors.New("redis down")}}
	assert.Error(t, q.EnqueueCompensation(context.Background(), models.CompensationPayload{IDReserva: 1}))
}
