package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/httpclient"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
	"golang.org/x/time/rate"
)

// MarketDataRepository reads prices from a CoinGecko compatible API.
type MarketDataRepository interface {
	GetHistory(ctx context.Context, coinID string, days int) ([]prediction.PricePoint, error)
	GetPrices(ctx context.Context, coinIDs []string, vsCurrency string) (map[string]float64, error)
}

type marketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            config.MarketData
	logger         *logger.Logger
	metrics        *metrics.Metrics
	requestLimiter *rate.Limiter
}

func NewMarketDataRepository(cfg config.MarketData, log *logger.Logger, m *metrics.Metrics) MarketDataRepository {
	client := httpclient.New(cfg.BaseURL, cfg.Timeout, log,
		httpclient.WithHeader("x-cg-demo-api-key", cfg.APIKey),
		httpclient.WithRetry(2, 500*time.Millisecond),
	)
	return newMarketDataRepository(client, cfg, log, m)
}

func newMarketDataRepository(client httpclient.HTTPClient, cfg config.MarketData, log *logger.Logger, m *metrics.Metrics) *marketDataRepository {
	perMinute := cfg.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &marketDataRepository{
		httpClient:     client,
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (r *marketDataRepository) vsCurrency() string {
	if r.cfg.VsCurrency == "" {
		return "usd"
	}
	return r.cfg.VsCurrency
}

// GetHistory returns daily samples for the last days, oldest first. Volumes
// are matched to prices by index; a missing volume is left at zero.
func (r *marketDataRepository) GetHistory(ctx context.Context, coinID string, days int) ([]prediction.PricePoint, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/coins/%s/market_chart", coinID)
	queryParams := map[string]string{
		"vs_currency": r.vsCurrency(),
		"days":        strconv.Itoa(days),
		"interval":    "daily",
	}

	var chart marketChartResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &chart)
	if err != nil {
		r.metrics.MarketDataErrors.WithLabelValues("market_chart").Inc()
		return nil, fmt.Errorf("failed to fetch market chart for %s: %w", coinID, err)
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		r.metrics.MarketDataErrors.WithLabelValues("market_chart").Inc()
		r.logger.ErrorContext(ctx, "Market data API returned non-OK status for market chart",
			logger.StringField("coin_id", coinID),
			logger.IntField("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("market chart for %s: %w", coinID, err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyHistory, coinID)
	}

	history := make([]prediction.PricePoint, len(chart.Prices))
	for i, p := range chart.Prices {
		history[i] = prediction.PricePoint{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Price:     p[1],
		}
		if i < len(chart.TotalVolumes) {
			history[i].Volume = chart.TotalVolumes[i][1]
		}
	}
	return history, nil
}

// GetPrices returns the spot price of each coin. Coins the provider does not
// know are absent from the result.
func (r *marketDataRepository) GetPrices(ctx context.Context, coinIDs []string, vsCurrency string) (map[string]float64, error) {
	if len(coinIDs) == 0 {
		return map[string]float64{}, nil
	}
	if vsCurrency == "" {
		vsCurrency = r.vsCurrency()
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"ids":           strings.Join(coinIDs, ","),
		"vs_currencies": vsCurrency,
	}

	var respData map[string]map[string]float64
	resp, err := r.httpClient.Get(ctx, "/simple/price", queryParams, nil, &respData)
	if err != nil {
		r.metrics.MarketDataErrors.WithLabelValues("simple_price").Inc()
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		r.metrics.MarketDataErrors.WithLabelValues("simple_price").Inc()
		r.logger.ErrorContext(ctx, "Market data API returned non-OK status for simple price",
			logger.StringField("ids", queryParams["ids"]),
			logger.IntField("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("simple price: %w", err)
	}

	prices := make(map[string]float64, len(respData))
	for id, quotes := range respData {
		if price, ok := quotes[vsCurrency]; ok {
			prices[id] = price
		}
	}
	return prices, nil
}
