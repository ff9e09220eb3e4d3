package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/strategy"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"github.com/robfig/cron/v3"
)

var ErrJobRunning = errors.New("job is already running")

type SchedulerService interface {
	// Start registers the configured cron entries and starts ticking. Jobs
	// started by cron inherit ctx.
	Start(ctx context.Context) error
	// Stop halts the cron loop. The returned context is done once running jobs finish.
	Stop() context.Context
	// RunNow executes jobType synchronously.
	RunNow(ctx context.Context, jobType strategy.JobType) (*model.JobRun, error)
	// Trigger starts jobType in the background and returns the running record.
	Trigger(ctx context.Context, jobType strategy.JobType) (*model.JobRun, error)
}

type schedulerService struct {
	cfg          config.Scheduler
	log          *logger.Logger
	cronParser   cron.Parser
	cron         *cron.Cron
	taskExecutor TaskExecutor

	mu      sync.Mutex
	running map[strategy.JobType]bool
}

func NewSchedulerService(cfg config.Scheduler, log *logger.Logger, taskExecutor TaskExecutor) SchedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &schedulerService{
		cfg:          cfg,
		log:          log,
		cronParser:   parser,
		cron:         cron.New(cron.WithParser(parser)),
		taskExecutor: taskExecutor,
		running:      make(map[strategy.JobType]bool),
	}
}

func (s *schedulerService) schedules() map[strategy.JobType]string {
	return map[strategy.JobType]string{
		strategy.JobTypeYearlyPrediction: s.cfg.YearlyCron,
		strategy.JobTypeDataCleanUp:      s.cfg.CleanupCron,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	for jobType, expr := range s.schedules() {
		if expr == "" {
			continue
		}
		if _, err := s.cronParser.Parse(expr); err != nil {
			return fmt.Errorf("invalid cron expression %q for %s: %w", expr, jobType, err)
		}
		if _, err := s.cron.AddFunc(expr, func() {
			if _, err := s.RunNow(ctx, jobType); err != nil && !errors.Is(err, ErrJobRunning) {
				s.log.ErrorContext(ctx, "Scheduled job failed", logger.StringField("job_type", string(jobType)), logger.ErrorField(err))
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", jobType, err)
		}
		s.log.Info("Job scheduled", logger.StringField("job_type", string(jobType)), logger.StringField("cron", expr))
	}
	s.cron.Start()
	return nil
}

func (s *schedulerService) Stop() context.Context {
	return s.cron.Stop()
}

func (s *schedulerService) acquire(jobType strategy.JobType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[jobType] {
		return false
	}
	s.running[jobType] = true
	return true
}

func (s *schedulerService) release(jobType strategy.JobType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, jobType)
}

func (s *schedulerService) RunNow(ctx context.Context, jobType strategy.JobType) (*model.JobRun, error) {
	if !s.acquire(jobType) {
		return nil, fmt.Errorf("%w: %s", ErrJobRunning, jobType)
	}
	defer s.release(jobType)

	run, err := s.taskExecutor.Begin(ctx, jobType, TriggerCron)
	if err != nil {
		return nil, err
	}
	if err := s.taskExecutor.Run(ctx, run); err != nil {
		return run, err
	}
	return run, nil
}

func (s *schedulerService) Trigger(ctx context.Context, jobType strategy.JobType) (*model.JobRun, error) {
	if !s.acquire(jobType) {
		return nil, fmt.Errorf("%w: %s", ErrJobRunning, jobType)
	}

	run, err := s.taskExecutor.Begin(ctx, jobType, TriggerManual)
	if err != nil {
		s.release(jobType)
		return nil, err
	}

	snapshot := *run
	bg := context.WithoutCancel(ctx)
	utils.GoSafe(s.log, func() {
		defer s.release(jobType)
		if err := s.taskExecutor.Run(bg, run); err != nil {
			s.log.ErrorContext(bg, "Manual job failed", logger.StringField("job_type", string(jobType)), logger.ErrorField(err))
		}
	})
	return &snapshot, nil
}
