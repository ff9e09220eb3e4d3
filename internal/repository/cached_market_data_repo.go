package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/cache"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/common"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
)

type cachedMarketDataRepository struct {
	next       MarketDataRepository
	cache      cache.Cache
	historyTTL time.Duration
	priceTTL   time.Duration
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// NewCachedMarketDataRepository serves repeated reads from c. Cache failures
// are logged and fall through to next.
func NewCachedMarketDataRepository(next MarketDataRepository, c cache.Cache, cfg config.Cache, log *logger.Logger, m *metrics.Metrics) MarketDataRepository {
	return &cachedMarketDataRepository{
		next:       next,
		cache:      c,
		historyTTL: cfg.HistoryTTL,
		priceTTL:   cfg.PriceTTL,
		logger:     log,
		metrics:    m,
	}
}

func (r *cachedMarketDataRepository) GetHistory(ctx context.Context, coinID string, days int) ([]prediction.PricePoint, error) {
	key := fmt.Sprintf(common.KEY_MARKET_HISTORY, coinID, days)
	if history, found, err := cache.GetFromCache[[]prediction.PricePoint](ctx, r.cache, key); err != nil {
		r.logger.WarnContext(ctx, "Failed to read history from cache", logger.StringField("key", key), logger.ErrorField(err))
	} else if found {
		r.metrics.CacheHit()
		return history, nil
	}
	r.metrics.CacheMiss()

	history, err := r.next.GetHistory(ctx, coinID, days)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, history, r.historyTTL); err != nil {
		r.logger.WarnContext(ctx, "Failed to cache history", logger.StringField("key", key), logger.ErrorField(err))
	}
	return history, nil
}

func (r *cachedMarketDataRepository) GetPrices(ctx context.Context, coinIDs []string, vsCurrency string) (map[string]float64, error) {
	prices := make(map[string]float64, len(coinIDs))
	var missing []string
	for _, id := range coinIDs {
		key := fmt.Sprintf(common.KEY_SPOT_PRICE, id, vsCurrency)
		price, found, err := cache.GetFromCache[float64](ctx, r.cache, key)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to read price from cache", logger.StringField("key", key), logger.ErrorField(err))
		}
		if found {
			r.metrics.CacheHit()
			prices[id] = price
			continue
		}
		r.metrics.CacheMiss()
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return prices, nil
	}

	sort.Strings(missing)
	fetched, err := r.next.GetPrices(ctx, missing, vsCurrency)
	if err != nil {
		return nil, err
	}
	for id, price := range fetched {
		prices[id] = price
		key := fmt.Sprintf(common.KEY_SPOT_PRICE, id, vsCurrency)
		if err := r.cache.Set(ctx, key, price, r.priceTTL); err != nil {
			r.logger.WarnContext(ctx, "Failed to cache price", logger.StringField("key", key), logger.ErrorField(err))
		}
	}
	return prices, nil
}
