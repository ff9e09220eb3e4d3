package dto

import (
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
)

type RunJobRequest struct {
	Type string `param:"type" validate:"required,oneof=yearly_prediction data_clean_up"`
}

type JobRunResponse struct {
	ID          uint       `json:"id"`
	JobType     string     `json:"job_type"`
	Trigger     string     `json:"trigger"`
	Status      string     `json:"status"`
	ExitCode    *int       `json:"exit_code,omitempty"`
	Output      string     `json:"output,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func NewJobRunResponse(run model.JobRun) JobRunResponse {
	resp := JobRunResponse{
		ID:        run.ID,
		JobType:   run.JobType,
		Trigger:   run.Trigger,
		Status:    string(run.Status),
		Output:    run.Output.String,
		Error:     run.ErrorMessage.String,
		StartedAt: run.StartedAt,
	}
	if run.ExitCode.Valid {
		resp.ExitCode = utils.ToPointer(int(run.ExitCode.Int32))
	}
	if run.CompletedAt.Valid {
		resp.CompletedAt = utils.ToPointer(run.CompletedAt.Time)
	}
	return resp
}
