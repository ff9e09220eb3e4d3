package repository

import (
	"context"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/cache"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
	"gorm.io/gorm"
)

type Repository struct {
	MarketDataRepo MarketDataRepository
	TokenRepo      TokenRepository
	PredictionRepo PredictionRepository
	JobRunRepo     JobRunRepository
	InsightRepo    InsightRepository
	UnitOfWork     UnitOfWork
}

func NewRepository(ctx context.Context, cfg *config.Config, db *gorm.DB, c cache.Cache, log *logger.Logger, m *metrics.Metrics) (*Repository, error) {
	insightRepo, err := NewInsightRepository(ctx, db, cfg.Gemini, log)
	if err != nil {
		return nil, err
	}

	marketData := NewCachedMarketDataRepository(
		NewMarketDataRepository(cfg.MarketData, log, m),
		c, cfg.Cache, log, m,
	)

	return &Repository{
		MarketDataRepo: marketData,
		TokenRepo:      NewTokenRepository(db),
		PredictionRepo: NewPredictionRepository(db),
		JobRunRepo:     NewJobRunRepository(db),
		InsightRepo:    insightRepo,
		UnitOfWork:     NewUnitOfWork(db),
	}, nil
}
