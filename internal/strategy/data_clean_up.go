package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
)

type DataCleanUpResult struct {
	Table string `json:"table"`
	Total int64  `json:"total"`
	Error string `json:"error,omitempty"`
}

// DataCleanUpStrategy removes job runs and insights past the retention window.
type DataCleanUpStrategy struct {
	cfg         config.Scheduler
	log         *logger.Logger
	now         func() time.Time
	jobRunRepo  repository.JobRunRepository
	insightRepo repository.InsightRepository
}

func NewDataCleanUpStrategy(cfg config.Scheduler, log *logger.Logger, jobRunRepo repository.JobRunRepository, insightRepo repository.InsightRepository) JobExecutionStrategy {
	return &DataCleanUpStrategy{
		cfg:         cfg,
		log:         log,
		now:         time.Now,
		jobRunRepo:  jobRunRepo,
		insightRepo: insightRepo,
	}
}

func (s *DataCleanUpStrategy) GetType() JobType {
	return JobTypeDataCleanUp
}

func (s *DataCleanUpStrategy) Execute(ctx context.Context) (JobResult, error) {
	retention := s.cfg.RetentionDays
	if retention <= 0 {
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: "retention disabled"}, nil
	}
	date := s.now().AddDate(0, 0, -retention)
	s.log.InfoContext(ctx, "Starting data clean up", logger.StringField("older_than", date.Format(time.RFC3339)))

	var (
		results []DataCleanUpResult
		success int
		failed  int
	)
	steps := []struct {
		table string
		run   func(context.Context, time.Time) (int64, error)
	}{
		{table: "job_runs", run: func(ctx context.Context, date time.Time) (int64, error) {
			return s.jobRunRepo.DeleteOlderThan(ctx, date)
		}},
		{table: "coin_insights", run: s.insightRepo.DeleteOlderThan},
	}
	for _, step := range steps {
		total, err := step.run(ctx, date)
		res := DataCleanUpResult{Table: step.table, Total: total}
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to delete old rows", logger.StringField("table", step.table), logger.ErrorField(err))
			res.Error = err.Error()
			failed++
		} else {
			success++
		}
		results = append(results, res)
	}

	out, err := json.Marshal(results)
	if err != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal output: %v", err)}, fmt.Errorf("failed to marshal output: %w", err)
	}
	return JobResult{ExitCode: exitCodeFor(success, failed), Output: string(out)}, nil
}
