package service

import (
	"context"
	"fmt"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/cache"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/common"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type PredictionService interface {
	GetIndicators(ctx context.Context, slug string, days int) (*dto.IndicatorsResponse, error)
	GetOverview(ctx context.Context, slug string) (*dto.CoinOverview, error)
	Predict(ctx context.Context, slug string, target time.Time) (*dto.TargetPrediction, error)
	GetYearly(ctx context.Context, slug string, fromYear, toYear int) (*dto.YearlyResponse, error)
	ProjectInvestment(ctx context.Context, slug string, amount float64, target time.Time) (*dto.InvestmentResponse, error)
	GetLiveTick(ctx context.Context, slug string) (*dto.LiveTick, error)
	GenerateYearly(ctx context.Context, token model.Token) (int, error)
}

type predictionService struct {
	cfg            *config.Config
	log            *logger.Logger
	metrics        *metrics.Metrics
	cache          cache.Cache
	predictor      *prediction.Predictor
	tokenRepo      repository.TokenRepository
	marketDataRepo repository.MarketDataRepository
	predictionRepo repository.PredictionRepository
	uow            repository.UnitOfWork
}

// NewPredictor builds the engine from the prediction config.
func NewPredictor(cfg config.Prediction) *prediction.Predictor {
	var opts []prediction.Option
	if cfg.Seed != 0 {
		opts = append(opts, prediction.WithSeed(cfg.Seed))
	}
	if !cfg.Bullish {
		opts = append(opts, prediction.WithBias(prediction.NoBias))
	}
	return prediction.NewPredictor(opts...)
}

func NewPredictionService(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	c cache.Cache,
	predictor *prediction.Predictor,
	tokenRepo repository.TokenRepository,
	marketDataRepo repository.MarketDataRepository,
	predictionRepo repository.PredictionRepository,
	uow repository.UnitOfWork,
) PredictionService {
	return &predictionService{
		cfg:            cfg,
		log:            log,
		metrics:        m,
		cache:          c,
		predictor:      predictor,
		tokenRepo:      tokenRepo,
		marketDataRepo: marketDataRepo,
		predictionRepo: predictionRepo,
		uow:            uow,
	}
}

// coinInput is a token together with the engine input built from its market data.
type coinInput struct {
	token model.Token
	input prediction.Input
}

func (s *predictionService) historyDays() int {
	if s.cfg.MarketData.HistoryDays > 0 {
		return s.cfg.MarketData.HistoryDays
	}
	return 90
}

// load fetches history and spot price concurrently. The latest history sample
// stands in for the spot price when the provider has no quote.
func (s *predictionService) load(ctx context.Context, slug string, days int) (*coinInput, error) {
	token, err := s.tokenRepo.GetBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}

	var (
		history []prediction.PricePoint
		prices  map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = s.marketDataRepo.GetHistory(gctx, token.CoinGeckoID, days)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.marketDataRepo.GetPrices(gctx, []string{token.CoinGeckoID}, common.FIAT_USD)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "Failed to load market data", logger.StringField("slug", token.Slug), logger.ErrorField(err))
		return nil, fmt.Errorf("failed to load market data for %s: %w", token.Slug, err)
	}

	current, ok := prices[token.CoinGeckoID]
	if !ok && len(history) > 0 {
		current = history[len(history)-1].Price
	}
	if current <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrPriceUnavailable, token.Slug)
	}

	return &coinInput{token: *token, input: prediction.InputFromHistory(history, current)}, nil
}

func (s *predictionService) observe(kind string, start time.Time) {
	s.metrics.PredictionsTotal.WithLabelValues(kind).Inc()
	s.metrics.PredictionDur.Observe(time.Since(start).Seconds())
}

func (s *predictionService) GetIndicators(ctx context.Context, slug string, days int) (*dto.IndicatorsResponse, error) {
	if days <= 0 {
		days = s.historyDays()
	}
	ci, err := s.load(ctx, slug, days)
	if err != nil {
		return nil, err
	}

	set, sentiment, err := s.predictor.Analyze(ci.input)
	if err != nil {
		return nil, err
	}
	return &dto.IndicatorsResponse{
		Slug:      ci.token.Slug,
		Days:      days,
		Latest:    dto.NewIndicatorSnapshot(set),
		Series:    set,
		Sentiment: sentiment,
	}, nil
}

// GetOverview is cached so the randomised long horizons stay stable between
// page loads.
func (s *predictionService) GetOverview(ctx context.Context, slug string) (*dto.CoinOverview, error) {
	slug = utils.NormalizeSlug(slug)
	key := fmt.Sprintf(common.KEY_OVERVIEW, slug)
	if cached, found, err := cache.GetFromCache[dto.CoinOverview](ctx, s.cache, key); err == nil && found {
		s.metrics.CacheHit()
		return &cached, nil
	}
	s.metrics.CacheMiss()

	ci, err := s.load(ctx, slug, s.historyDays())
	if err != nil {
		return nil, err
	}
	overview, err := s.overview(ci)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, overview, s.cfg.Cache.PredictionTTL); err != nil {
		s.log.WarnContext(ctx, "Failed to cache overview", logger.StringField("slug", slug), logger.ErrorField(err))
	}
	return overview, nil
}

func (s *predictionService) overview(ci *coinInput) (*dto.CoinOverview, error) {
	defer s.observe("overview", time.Now())

	set, sentiment, err := s.predictor.Analyze(ci.input)
	if err != nil {
		return nil, err
	}
	buckets, err := s.predictor.PredictHorizons(ci.input)
	if err != nil {
		return nil, err
	}
	return &dto.CoinOverview{
		Slug:         ci.token.Slug,
		Symbol:       ci.token.Symbol,
		Name:         ci.token.Name,
		CurrentPrice: ci.input.CurrentPrice,
		Sentiment:    sentiment,
		Latest:       dto.NewIndicatorSnapshot(set),
		Supports:     set.Supports,
		Resistances:  set.Resistances,
		Horizons:     buckets,
		GeneratedAt:  s.predictor.Now().UTC(),
	}, nil
}

func (s *predictionService) Predict(ctx context.Context, slug string, target time.Time) (*dto.TargetPrediction, error) {
	ci, err := s.load(ctx, slug, s.historyDays())
	if err != nil {
		return nil, err
	}

	defer s.observe("target", time.Now())
	res, err := s.predictor.Predict(ci.input, target)
	if err != nil {
		return nil, err
	}
	return &dto.TargetPrediction{
		Slug:         ci.token.Slug,
		TargetDate:   target.Format(utils.DateLayout),
		CurrentPrice: ci.input.CurrentPrice,
		Prediction:   res,
	}, nil
}

func (s *predictionService) yearRange(fromYear, toYear int) (int, int) {
	span := s.cfg.Prediction.YearsAhead
	if span <= 0 {
		span = 10
	}
	if fromYear <= 0 {
		fromYear = s.predictor.Now().Year()
	}
	if toYear <= 0 {
		toYear = fromYear + span - 1
	}
	return fromYear, toYear
}

func yearsBetween(from, to int) []int {
	if to < from {
		return nil
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// GetYearly serves the stored table for the years the batch job has produced
// and computes the remaining years of the range on demand. Stored months that
// are already over are dropped, as the computed table does.
func (s *predictionService) GetYearly(ctx context.Context, slug string, fromYear, toYear int) (*dto.YearlyResponse, error) {
	fromYear, toYear = s.yearRange(fromYear, toYear)
	if toYear < fromYear {
		return nil, fmt.Errorf("%w: year range %d-%d", prediction.ErrInvalidInput, fromYear, toYear)
	}

	token, err := s.tokenRepo.GetBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}

	now := s.predictor.Now()
	stored, price, err := s.predictionRepo.GetYearly(ctx, token.Slug, fromYear, toYear)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to read stored yearly predictions", logger.StringField("slug", token.Slug), logger.ErrorField(err))
		stored = nil
	}
	stored = stored.Upcoming(now)

	// Years already over have nothing left to compute.
	var missing []int
	for _, year := range yearsBetween(max(fromYear, now.Year()), toYear) {
		if _, ok := stored[year]; !ok {
			missing = append(missing, year)
		}
	}
	if len(missing) == 0 && len(stored) > 0 {
		return &dto.YearlyResponse{Slug: token.Slug, CurrentPrice: price, Stored: true, Years: stored}, nil
	}

	ci, err := s.load(ctx, token.Slug, s.historyDays())
	if err != nil {
		return nil, err
	}
	defer s.observe("yearly", time.Now())
	table, err := s.predictor.PredictYearly(ci.input, missing...)
	if err != nil {
		return nil, err
	}
	for year, months := range stored {
		table[year] = months
	}
	return &dto.YearlyResponse{Slug: token.Slug, CurrentPrice: ci.input.CurrentPrice, Years: table}, nil
}

func (s *predictionService) ProjectInvestment(ctx context.Context, slug string, amount float64, target time.Time) (*dto.InvestmentResponse, error) {
	overview, err := s.GetOverview(ctx, slug)
	if err != nil {
		return nil, err
	}

	in := prediction.ProjectionInput{
		Amount:       amount,
		TargetDate:   target,
		CurrentPrice: overview.CurrentPrice,
		Buckets:      overview.Horizons,
	}
	if days := prediction.DaysUntil(s.predictor.Now(), target); days > prediction.Horizon1Year.Days() {
		yearly, err := s.GetYearly(ctx, overview.Slug, 0, target.Year())
		if err != nil {
			return nil, err
		}
		in.Yearly = yearly.Years
	}

	defer s.observe("investment", time.Now())
	proj, err := prediction.Project(in, s.predictor.Now())
	if err != nil {
		return nil, err
	}
	return &dto.InvestmentResponse{
		Slug:           overview.Slug,
		Amount:         amount,
		TargetDate:     target.Format(utils.DateLayout),
		CurrentPrice:   overview.CurrentPrice,
		ProjectedPrice: proj.Price,
		ProjectedValue: proj.ProjectedValue,
		ROI:            proj.ROI,
		Source:         proj.Source,
	}, nil
}

func (s *predictionService) GetLiveTick(ctx context.Context, slug string) (*dto.LiveTick, error) {
	ci, err := s.load(ctx, slug, s.historyDays())
	if err != nil {
		return nil, err
	}
	_, sentiment, err := s.predictor.Analyze(ci.input)
	if err != nil {
		return nil, err
	}
	return &dto.LiveTick{
		Slug:      ci.token.Slug,
		Price:     ci.input.CurrentPrice,
		Sentiment: sentiment,
		Timestamp: s.predictor.Now().UTC(),
	}, nil
}

// GenerateYearly computes the configured span of years for token and stores
// it in one transaction. It returns the number of years written.
func (s *predictionService) GenerateYearly(ctx context.Context, token model.Token) (int, error) {
	ci, err := s.load(ctx, token.Slug, s.historyDays())
	if err != nil {
		return 0, err
	}
	from, to := s.yearRange(0, 0)

	start := time.Now()
	table, err := s.predictor.PredictYearly(ci.input, yearsBetween(from, to)...)
	s.observe("yearly_batch", start)
	if err != nil {
		return 0, err
	}

	generatedAt := s.predictor.Now().UTC()
	err = s.uow.Run(ctx, func(opts ...utils.DBOption) error {
		return s.predictionRepo.SaveYearly(ctx, token.Slug, ci.input.CurrentPrice, table, generatedAt, opts...)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save yearly predictions for %s: %w", token.Slug, err)
	}
	return len(table), nil
}
