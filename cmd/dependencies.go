package cmd

import (
	"context"
	"io"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/service"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/cache"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/postgres"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	metrics   *metrics.Metrics
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	c, err := cache.New(ctx, cfg.Cache, cfg.Redis, log)
	if err != nil {
		log.Error("Failed to create cache", logger.ErrorField(err))
		_ = db.Close()
		return nil, err
	}

	m := metrics.NewNop()
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     c,
		metrics:   m,
	}, nil
}

// NewServices wires repositories, the prediction engine and services.
func (d *AppDependency) NewServices(ctx context.Context) (*service.Service, error) {
	repo, err := repository.NewRepository(ctx, d.cfg, d.db.DB, d.cache, d.log, d.metrics)
	if err != nil {
		return nil, err
	}
	predictor := service.NewPredictor(d.cfg.Prediction)
	return service.NewService(d.cfg, d.log, d.metrics, repo, d.cache, predictor), nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if closer, ok := d.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			d.log.Warn("Failed to close cache", logger.ErrorField(err))
		}
	}
	_ = d.log.Sync()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
