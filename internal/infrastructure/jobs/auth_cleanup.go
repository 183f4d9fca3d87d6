package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"stock-tracker.backend/pkg/logger"
	"stock-tracker.backend/pkg/metrics"
)

const authCleanupJobName = "auth_cleanup"

type verificationPurger interface {
	DeleteExpiredUnverified(ctx context.Context, before time.Time) (int64, error)
}

type resetTokenPurger interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// AuthCleanupJob removes expired OTP records and spent reset tokens.
type AuthCleanupJob struct {
	verifications verificationPurger
	resets        resetTokenPurger
	metrics       *metrics.JobMetrics
	interval      time.Duration
	now           func() time.Time
	stop          chan struct{}
	stopOnce      sync.Once
}

func NewAuthCleanupJob(verifications verificationPurger, resets resetTokenPurger, jobMetrics *metrics.JobMetrics, interval time.Duration) *AuthCleanupJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &AuthCleanupJob{
		verifications: verifications,
		resets:        resets,
		metrics:       jobMetrics,
		interval:      interval,
		now:           time.Now,
		stop:          make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (j *AuthCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting auth cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Auth cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Auth cleanup job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *AuthCleanupJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// RunOnce performs a single sweep. Each table is swept even if the other fails.
func (j *AuthCleanupJob) RunOnce(ctx context.Context) {
	started := j.now()
	cutoff := started.UTC()
	failed := false

	n, err := j.verifications.DeleteExpiredUnverified(ctx, cutoff)
	if err != nil {
		failed = true
		logger.Error(ctx, "Failed to purge expired email verifications", zap.Error(err))
	} else {
		j.metrics.AddRemoved(authCleanupJobName, "email_verifications", n)
	}

	m, err := j.resets.DeleteStale(ctx, cutoff)
	if err != nil {
		failed = true
		logger.Error(ctx, "Failed to purge stale password reset tokens", zap.Error(err))
	} else {
		j.metrics.AddRemoved(authCleanupJobName, "password_reset_tokens", m)
	}

	j.metrics.ObserveDuration(authCleanupJobName, j.now().Sub(started))
	if failed {
		j.metrics.IncFailure(authCleanupJobName)
		return
	}
	j.metrics.IncSuccess(authCleanupJobName)

	if n+m > 0 {
		logger.Info(ctx, "Auth cleanup removed rows",
			zap.Int64("email_verifications", n),
			zap.Int64("password_reset_tokens", m))
	}
}
