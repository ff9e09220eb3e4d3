package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/strategy"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
)

const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// TaskExecutor records and runs job executions. Begin persists a running
// JobRun, Run executes it and stores the outcome.
type TaskExecutor interface {
	Begin(ctx context.Context, jobType strategy.JobType, trigger string) (*model.JobRun, error)
	Run(ctx context.Context, run *model.JobRun) error
}

type taskExecutor struct {
	cfg                config.Scheduler
	log                *logger.Logger
	metrics            *metrics.Metrics
	now                func() time.Time
	jobRunRepo         repository.JobRunRepository
	executorStrategies map[strategy.JobType]strategy.JobExecutionStrategy
}

func NewTaskExecutor(cfg config.Scheduler, log *logger.Logger, m *metrics.Metrics, jobRunRepo repository.JobRunRepository, strategies ...strategy.JobExecutionStrategy) TaskExecutor {
	byType := make(map[strategy.JobType]strategy.JobExecutionStrategy, len(strategies))
	for _, s := range strategies {
		byType[s.GetType()] = s
	}
	return &taskExecutor{
		cfg:                cfg,
		log:                log,
		metrics:            m,
		now:                time.Now,
		jobRunRepo:         jobRunRepo,
		executorStrategies: byType,
	}
}

func (t *taskExecutor) Begin(ctx context.Context, jobType strategy.JobType, trigger string) (*model.JobRun, error) {
	if _, ok := t.executorStrategies[jobType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, jobType)
	}
	run := &model.JobRun{
		JobType:   string(jobType),
		Trigger:   trigger,
		Status:    model.StatusRunning,
		StartedAt: t.now(),
	}
	if err := t.jobRunRepo.Create(ctx, run); err != nil {
		t.log.ErrorContext(ctx, "Failed to create job run", logger.StringField("job_type", string(jobType)), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create job run: %w", err)
	}
	return run, nil
}

func (t *taskExecutor) Run(ctx context.Context, run *model.JobRun) error {
	jobType := strategy.JobType(run.JobType)
	t.log.InfoContext(ctx, "Processing job", logger.StringField("job_type", run.JobType), logger.IntField("run_id", int(run.ID)))

	s, ok := t.executorStrategies[jobType]
	if !ok {
		run.Status = model.StatusFailed
		run.ErrorMessage = sql.NullString{String: "job type not found", Valid: true}
	} else {
		if t.cfg.TimeoutDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, t.cfg.TimeoutDuration)
			defer cancel()
		}

		result, err := s.Execute(ctx)
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			run.Status = model.StatusTimeout
			run.ErrorMessage = sql.NullString{String: ctx.Err().Error(), Valid: true}
		case err != nil:
			t.log.ErrorContext(ctx, "Failed to execute job", logger.StringField("job_type", run.JobType), logger.ErrorField(err))
			run.Status = model.StatusFailed
			run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		default:
			run.Status = model.StatusCompleted
		}
		run.ExitCode = sql.NullInt32{Int32: result.ExitCode, Valid: true}
		run.Output = sql.NullString{String: result.Output, Valid: true}
	}
	run.CompletedAt = sql.NullTime{Time: t.now(), Valid: true}

	exitCode := "none"
	if run.ExitCode.Valid {
		exitCode = strconv.Itoa(int(run.ExitCode.Int32))
	}
	t.metrics.JobRuns.WithLabelValues(run.JobType, exitCode).Inc()

	// The job context may be expired; the outcome is still recorded.
	if err := t.jobRunRepo.Update(context.WithoutCancel(ctx), run); err != nil {
		t.log.ErrorContext(ctx, "Failed to update job run", logger.IntField("run_id", int(run.ID)), logger.ErrorField(err))
		return fmt.Errorf("failed to update job run: %w", err)
	}

	t.log.InfoContext(ctx, "Job finished",
		logger.StringField("job_type", run.JobType),
		logger.StringField("status", string(run.Status)),
		logger.StringField("exit_code", exitCode),
	)
	return nil
}
