package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
)

var testNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeTokenRepo struct {
	tokens map[string]model.Token
}

func newFakeTokenRepo(slugs ...string) *fakeTokenRepo {
	r := &fakeTokenRepo{tokens: map[string]model.Token{}}
	for i, s := range slugs {
		r.tokens[s] = model.Token{ID: uint(i + 1), Slug: s, Symbol: s[:3], Name: s, CoinGeckoID: s + "-cg", Rank: i + 1}
	}
	return r
}

func (f *fakeTokenRepo) GetBySlug(_ context.Context, slug string, _ ...utils.DBOption) (*model.Token, error) {
	t, ok := f.tokens[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrTokenNotFound, slug)
	}
	return &t, nil
}

func (f *fakeTokenRepo) List(_ context.Context, _ model.ListTokenParam, _ ...utils.DBOption) ([]model.Token, error) {
	out := make([]model.Token, 0, len(f.tokens))
	for _, t := range f.tokens {
		out = append(out, t)
	}
	return out, nil
}

type fakeMarketData struct {
	mu           sync.Mutex
	history      map[string][]prediction.PricePoint
	prices       map[string]float64
	historyCalls int
	priceCalls   int
	err          error
}

func (f *fakeMarketData) GetHistory(_ context.Context, id string, _ int) ([]prediction.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.history[id], nil
}

func (f *fakeMarketData) GetPrices(_ context.Context, ids []string, _ string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]float64{}
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func risingHistory(n int, start float64) []prediction.PricePoint {
	out := make([]prediction.PricePoint, n)
	for i := range out {
		out[i] = prediction.PricePoint{
			Timestamp: testNow.AddDate(0, 0, i-n),
			Price:     start + float64(i),
			Volume:    1000 + float64(i*10),
		}
	}
	return out
}

type fakePredictionRepo struct {
	stored      map[string]prediction.YearlyTable
	storedPrice float64
	saved       map[string]prediction.YearlyTable
	saveOpts    int
}

func (f *fakePredictionRepo) SaveYearly(_ context.Context, slug string, _ float64, table prediction.YearlyTable, _ time.Time, opts ...utils.DBOption) error {
	if f.saved == nil {
		f.saved = map[string]prediction.YearlyTable{}
	}
	f.saved[slug] = table
	f.saveOpts = len(opts)
	return nil
}

func (f *fakePredictionRepo) GetYearly(_ context.Context, slug string, from, to int, _ ...utils.DBOption) (prediction.YearlyTable, float64, error) {
	out := prediction.YearlyTable{}
	for year, months := range f.stored[slug] {
		if year >= from && year <= to {
			out[year] = months
		}
	}
	return out, f.storedPrice, nil
}

type fakeUnitOfWork struct{ runs int }

func (f *fakeUnitOfWork) Run(_ context.Context, fn func(opts ...utils.DBOption) error) error {
	f.runs++
	return fn(utils.WithWhere("1 = 1"))
}

type fakeInsightRepo struct {
	latest    *model.CoinInsight
	generated int
	err       error
}

func (f *fakeInsightRepo) Describe(_ context.Context, token model.Token, overview dto.CoinOverview) (*model.CoinInsight, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.generated++
	return &model.CoinInsight{
		TokenSlug: token.Slug,
		Model:     "test-model",
		Content:   fmt.Sprintf("%s trades at %.0f", token.Name, overview.CurrentPrice),
		CreatedAt: testNow,
	}, nil
}

func (f *fakeInsightRepo) GetLatest(_ context.Context, _ string, since time.Time) (*model.CoinInsight, error) {
	if f.latest != nil && !f.latest.CreatedAt.Before(since) {
		return f.latest, nil
	}
	return nil, nil
}

func (f *fakeInsightRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

type fakeJobRunRepo struct {
	mu      sync.Mutex
	nextID  uint
	created []model.JobRun
	updated []model.JobRun
	err     error
}

func (f *fakeJobRunRepo) Create(_ context.Context, run *model.JobRun, _ ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	run.ID = f.nextID
	f.created = append(f.created, *run)
	return nil
}

func (f *fakeJobRunRepo) Update(_ context.Context, run *model.JobRun, _ ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, *run)
	return nil
}

func (f *fakeJobRunRepo) ListRecent(context.Context, string, int, ...utils.DBOption) ([]model.JobRun, error) {
	return nil, nil
}

func (f *fakeJobRunRepo) DeleteOlderThan(context.Context, time.Time, ...utils.DBOption) (int64, error) {
	return 0, nil
}

func (f *fakeJobRunRepo) updates() []model.JobRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.JobRun(nil), f.updated...)
}

var errProviderDown = errors.New("provider down")

func testConfig() *config.Config {
	return &config.Config{
		MarketData: config.MarketData{HistoryDays: 60},
		Cache:      config.Cache{PredictionTTL: time.Minute},
		Prediction: config.Prediction{YearsAhead: 3, Bullish: true},
		Scheduler:  config.Scheduler{MaxConcurrency: 2, TopTokens: 10},
		Gemini:     config.Gemini{InsightTTL: time.Hour},
	}
}
