package queue

import (
	"encoding/json"
	"time"

	"salonsuite-backend/internal/shared"
	"salonsuite-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler         *asynq.Scheduler
	heldRetentionDays int
}

func NewScheduler(redisAddress string, heldRetentionDays int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:         scheduler,
		heldRetentionDays: heldRetentionDays,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	if err := s.registerExpireCouponsJob(); err != nil {
		return err
	}

	if err := s.registerPurgeStaleHeldBillsJob(); err != nil {
		return err
	}

	return nil
}

// Expire coupons hourly so a coupon past its window stops validating
// within the hour even if nobody touches it.
func (s *Scheduler) registerExpireCouponsJob() error {
	payload, err := json.Marshal(shared.ExpireCouponsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireCoupons, payload)

	_, err = s.scheduler.Register(
		"0 * * * *", // hourly
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpireCoupons job", err)
		return err
	}

	logger.Info("Registered ExpireCoupons: hourly", map[string]interface{}{})
	return nil
}

// Purge stale held bills daily at 3 AM, low-traffic hour.
func (s *Scheduler) registerPurgeStaleHeldBillsJob() error {
	payload, err := json.Marshal(shared.PurgeStaleHeldBillsPayload{
		RetentionDays: s.heldRetentionDays,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePurgeStaleHeldBill, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // daily at 3 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register PurgeStaleHeldBills job", err)
		return err
	}

	logger.Info("Registered PurgeStaleHeldBills: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
