package strategy

import (
	"context"
)

const (
	JOB_EXIT_CODE_SUCCESS         = 200
	JOB_EXIT_CODE_FAILED          = 500
	JOB_EXIT_CODE_SKIPPED         = 204
	JOB_EXIT_CODE_PARTIAL_SUCCESS = 206
)

type JobType string

const (
	JobTypeYearlyPrediction JobType = "yearly_prediction"
	JobTypeDataCleanUp      JobType = "data_clean_up"
)

type JobResult struct {
	ExitCode int32  `json:"exit_code"`
	Output   string `json:"output"`
}

// JobExecutionStrategy is one kind of scheduled batch work.
type JobExecutionStrategy interface {
	Execute(ctx context.Context) (JobResult, error)
	GetType() JobType
}

// exitCodeFor folds per item outcomes into a job exit code.
func exitCodeFor(succeeded, failed int) int32 {
	switch {
	case succeeded == 0 && failed == 0:
		return JOB_EXIT_CODE_SKIPPED
	case failed == 0:
		return JOB_EXIT_CODE_SUCCESS
	case succeeded == 0:
		return JOB_EXIT_CODE_FAILED
	default:
		return JOB_EXIT_CODE_PARTIAL_SUCCESS
	}
}
