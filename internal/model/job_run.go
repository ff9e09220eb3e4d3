package model

import (
	"database/sql"
	"time"
)

type JobRunStatus string

const (
	StatusRunning   JobRunStatus = "running"
	StatusCompleted JobRunStatus = "completed"
	StatusFailed    JobRunStatus = "failed"
	StatusTimeout   JobRunStatus = "timeout"
)

// JobRun records one execution of a scheduled job.
type JobRun struct {
	ID           uint      `gorm:"primaryKey"`
	JobType      string    `gorm:"type:varchar(50);not null;index"`
	Trigger      string    `gorm:"type:varchar(20);not null"`
	StartedAt    time.Time `gorm:"not null"`
	CompletedAt  sql.NullTime
	Status       JobRunStatus `gorm:"type:varchar(50);not null"`
	ExitCode     sql.NullInt32
	Output       sql.NullString `gorm:"type:text"`
	ErrorMessage sql.NullString `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (JobRun) TableName() string {
	return "job_runs"
}
