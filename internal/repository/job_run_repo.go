package repository

import (
	"context"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"gorm.io/gorm"
)

type JobRunRepository interface {
	Create(ctx context.Context, run *model.JobRun, opts ...utils.DBOption) error
	Update(ctx context.Context, run *model.JobRun, opts ...utils.DBOption) error
	ListRecent(ctx context.Context, jobType string, limit int, opts ...utils.DBOption) ([]model.JobRun, error)
	DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error)
}

type jobRunRepository struct {
	db *gorm.DB
}

func NewJobRunRepository(db *gorm.DB) JobRunRepository {
	return &jobRunRepository{db: db}
}

func (r *jobRunRepository) Create(ctx context.Context, run *model.JobRun, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(run).Error
}

func (r *jobRunRepository) Update(ctx context.Context, run *model.JobRun, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Save(run).Error
}

func (r *jobRunRepository) ListRecent(ctx context.Context, jobType string, limit int, opts ...utils.DBOption) ([]model.JobRun, error) {
	var runs []model.JobRun
	opts = append(opts, utils.WithOrder("created_at DESC"), utils.WithLimit(limit))
	if jobType != "" {
		opts = append(opts, utils.WithWhere("job_type = ?", jobType))
	}
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *jobRunRepository) DeleteOlderThan(ctx context.Context, date time.Time, opts ...utils.DBOption) (int64, error) {
	res := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("created_at < ?", date).
		Delete(&model.JobRun{})
	return res.RowsAffected, res.Error
}
