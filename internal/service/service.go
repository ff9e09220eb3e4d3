package service

import (
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/strategy"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/cache"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
)

type Service struct {
	PredictionService PredictionService
	ConverterService  ConverterService
	InsightService    InsightService
	SchedulerService  SchedulerService
	TaskExecutor      TaskExecutor
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	repo *repository.Repository,
	c cache.Cache,
	predictor *prediction.Predictor,
) *Service {
	predictionService := NewPredictionService(cfg, log, m, c, predictor,
		repo.TokenRepo, repo.MarketDataRepo, repo.PredictionRepo, repo.UnitOfWork)

	taskExecutor := NewTaskExecutor(cfg.Scheduler, log, m, repo.JobRunRepo,
		strategy.NewYearlyPredictionStrategy(cfg.Scheduler, log, repo.TokenRepo, predictionService),
		strategy.NewDataCleanUpStrategy(cfg.Scheduler, log, repo.JobRunRepo, repo.InsightRepo),
	)

	return &Service{
		PredictionService: predictionService,
		ConverterService:  NewConverterService(log, repo.TokenRepo, repo.MarketDataRepo),
		InsightService:    NewInsightService(cfg.Gemini, log, repo.TokenRepo, repo.InsightRepo, predictionService),
		SchedulerService:  NewSchedulerService(cfg.Scheduler, log, taskExecutor),
		TaskExecutor:      taskExecutor,
	}
}
