package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of asynq.Client that services need.
// Lets tests swap in a fake without a Redis connection.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewClient builds the asynq client used by services to enqueue tasks
// after their transactions commit.
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}
