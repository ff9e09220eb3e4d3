package prediction

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/indicator"
)

const (
	// long horizon
	baseGrowthRate      = 0.20
	sentimentGrowthRate = 0.20
	cycleYears          = 4.0
	cycleAmplitude      = 0.3
	jitterRange         = 0.1
	longTermStartYears  = 5.0
	longTermYearlyBoost = 0.05
	bearMaxYears        = 10.0
	bearProbability     = 0.15
	bearFloor           = 0.6
	bearRange           = 0.3
	minLongConfidence   = 30.0
	confidenceDecay     = 3.0

	// short horizon
	bullishTrendTerm  = 1.2
	bearishTrendTerm  = -0.3
	minTrendStrength  = 0.25
	rsiBearish        = 30.0
	rsiSevere         = 25.0
	flatBullishBias   = 0.10
	timedBullishBias  = 0.35
	bandWidth         = 1.5
	levelPull         = 0.3
	bullishConfidence = 10.0
	bearishConfidence = -5.0
	minPriceFraction  = 0.10
	minBandFraction   = 0.05
)

// RandomSource supplies uniform samples in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Predictor projects coin prices. A Predictor is safe for concurrent use;
// draws from its random source are serialised.
type Predictor struct {
	mu         sync.Mutex
	rand       RandomSource
	now        func() time.Time
	bias       Bias
	indicators indicator.Options
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithRand sets the random source used for long horizon jitter.
func WithRand(src RandomSource) Option {
	return func(p *Predictor) {
		p.rand = src
	}
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock overrides the clock used to measure the distance to a target date.
func WithClock(now func() time.Time) Option {
	return func(p *Predictor) {
		p.now = now
	}
}

// WithBias overrides the bullish skew applied before scoring.
func WithBias(b Bias) Option {
	return func(p *Predictor) {
		p.bias = b
	}
}

// WithIndicatorOptions overrides the indicator lookback windows.
func WithIndicatorOptions(opts indicator.Options) Option {
	return func(p *Predictor) {
		p.indicators = opts
	}
}

func NewPredictor(opts ...Option) *Predictor {
	p := &Predictor{
		now:        time.Now,
		bias:       DefaultBias,
		indicators: indicator.DefaultOptions,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rand == nil {
		p.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p
}

// Now returns the predictor's current time.
func (p *Predictor) Now() time.Time {
	return p.now()
}

// analysis is everything derived from the history that does not depend on the
// target date.
type analysis struct {
	indicators  indicator.Set
	raw         signals
	biased      signals
	sentiment   SentimentResult
	volatility  float64
	supports    []float64
	resistances []float64
}

func (a analysis) severelyBearish() bool {
	return a.raw.rsi < rsiSevere && a.raw.histogram < severeHistogram && a.raw.priceChange < severePriceChange
}

func validate(in Input) error {
	if in.CurrentPrice <= 0 || math.IsNaN(in.CurrentPrice) || math.IsInf(in.CurrentPrice, 0) {
		return fmt.Errorf("%w: current price must be positive", ErrInvalidInput)
	}
	if len(in.Prices) != len(in.Volumes) {
		return fmt.Errorf("%w: %d prices but %d volumes", ErrInvalidInput, len(in.Prices), len(in.Volumes))
	}
	return nil
}

// Analyze computes the indicators and the biased sentiment for in.
func (p *Predictor) Analyze(in Input) (indicator.Set, SentimentResult, error) {
	if err := validate(in); err != nil {
		return indicator.Set{}, SentimentResult{}, err
	}
	a := p.analyze(in)
	return a.indicators, a.sentiment, nil
}

func (p *Predictor) analyze(in Input) analysis {
	set := indicator.Compute(in.Prices, p.indicators)
	raw := signals{
		rsi:          set.RSI.Last().Or(50),
		histogram:    set.MACD.Histogram.Last().Or(0),
		priceChange:  lastChange(in.Prices),
		volumeChange: lastChange(in.Volumes),
	}
	biased := p.bias.apply(raw)
	return analysis{
		indicators:  set,
		raw:         raw,
		biased:      biased,
		sentiment:   Score(biased.rsi, biased.histogram, biased.priceChange, biased.volumeChange),
		volatility:  set.Volatility,
		supports:    set.Supports,
		resistances: set.Resistances,
	}
}

// lastChange is the fractional change between the last two samples.
func lastChange(series []float64) float64 {
	n := len(series)
	if n < 2 || series[n-2] == 0 {
		return 0
	}
	return (series[n-1] - series[n-2]) / series[n-2]
}

// Predict projects the price at target. Targets that are not at least one
// whole day in the future are rejected.
func (p *Predictor) Predict(in Input, target time.Time) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}
	days := DaysUntil(p.now(), target)
	if days <= 0 {
		return Result{}, fmt.Errorf("%w: target date %s is not in the future", ErrInvalidInput, target.Format(time.DateOnly))
	}
	return p.project(p.analyze(in), in.CurrentPrice, days), nil
}

// PredictHorizons projects every standard horizon from one analysis.
func (p *Predictor) PredictHorizons(in Input) (Buckets, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	a := p.analyze(in)
	buckets := make(Buckets, len(StandardHorizons))
	for _, h := range StandardHorizons {
		buckets[h] = p.project(a, in.CurrentPrice, h.Days())
	}
	return buckets, nil
}

// PredictYearly builds a monthly table for each year, targeting the middle
// of every month. Months that are already over are left out. Years are
// projected independently from the same history.
func (p *Predictor) PredictYearly(in Input, years ...int) (YearlyTable, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	a := p.analyze(in)
	now := p.now()
	table := make(YearlyTable, len(years))
	for _, year := range years {
		months := make([]MonthlyPrediction, 0, 12)
		for month := 0; month < 12; month++ {
			days := DaysUntil(now, monthTarget(year, month, now.Location()))
			if days <= 0 {
				continue
			}
			months = append(months, MonthlyPrediction{
				Month:  month,
				Year:   year,
				Result: p.project(a, in.CurrentPrice, days),
			})
		}
		if len(months) > 0 {
			table[year] = months
		}
	}
	return table, nil
}

func (p *Predictor) project(a analysis, currentPrice float64, days int) Result {
	return modelFor(days).model(p, a, currentPrice, days)
}

// predictLong compounds a sentiment driven growth rate, modulated by a four
// year market cycle and random jitter.
func (p *Predictor) predictLong(a analysis, currentPrice float64, days int) Result {
	years := float64(days) / daysPerYear

	p.mu.Lock()
	jitterDraw := p.rand.Float64()
	bearDraw := p.rand.Float64()
	bearDepth := p.rand.Float64()
	p.mu.Unlock()

	rate := baseGrowthRate + a.sentiment.Score/100*sentimentGrowthRate
	cycle := math.Sin(2 * math.Pi * math.Mod(years, cycleYears) / cycleYears)

	price := currentPrice * math.Pow(1+rate, years)
	price *= 1 + cycleAmplitude*cycle
	price *= 1 + (2*jitterDraw-1)*math.Min(a.volatility, 1)*jitterRange
	if years > longTermStartYears {
		price *= 1 + (years-longTermStartYears)*longTermYearlyBoost
	}
	if years < bearMaxYears && bearDraw < bearProbability {
		price *= bearFloor + bearDepth*bearRange
	}
	price = math.Max(price, currentPrice*minPriceFraction)

	minPrice := price * (0.6 - 0.1*cycle)
	maxPrice := price * (1.4 + 0.2*cycle)
	confidence := math.Max(minLongConfidence, 100-years*confidenceDecay)

	return newResult(price, minPrice, maxPrice, currentPrice, confidence, a.sentiment.Label)
}

// predictShort scales the expected move by volatility over the horizon and
// keeps the result near the closest support and resistance.
func (p *Predictor) predictShort(a analysis, currentPrice float64, days int) Result {
	severe := a.severelyBearish()

	macdTerm := bullishTrendTerm
	if a.raw.histogram < severeHistogram {
		macdTerm = bearishTrendTerm
	}
	rsiTerm := bullishTrendTerm
	if a.raw.rsi < rsiBearish {
		rsiTerm = bearishTrendTerm
	}
	trend := (macdTerm + rsiTerm) / 2
	if !severe {
		trend = math.Max(trend, minTrendStrength)
	}

	horizon := float64(days) / daysPerYear
	volAdj := a.volatility * math.Sqrt(horizon)

	price := currentPrice * (1 + trend*volAdj)
	if !severe {
		price *= 1 + flatBullishBias
		price *= 1 + timedBullishBias*math.Min(1, horizon)
	}
	price = math.Max(price, currentPrice*minPriceFraction)

	minPrice := math.Max(price*(1-bandWidth*volAdj), currentPrice*minBandFraction)
	maxPrice := price * (1 + bandWidth*volAdj)
	price = pullToLevels(price, currentPrice, a.supports, a.resistances)

	confidence := 0.3*a.sentiment.Score +
		0.4*math.Min(1, daysPerYear/float64(days))*100 +
		0.3*(1-volAdj)*100
	if trend > 0 {
		confidence += bullishConfidence
	} else {
		confidence += bearishConfidence
	}

	return newResult(price, minPrice, maxPrice, currentPrice, confidence, a.sentiment.Label)
}

// pullToLevels moves price part of the way back towards the nearest
// resistance above, or support below, the current price when it overshoots.
func pullToLevels(price, currentPrice float64, supports, resistances []float64) float64 {
	if r, ok := nearestAbove(resistances, currentPrice); ok && price > r {
		return price - (price-r)*levelPull
	}
	if s, ok := nearestBelow(supports, currentPrice); ok && price < s {
		return price + (s-price)*levelPull
	}
	return price
}

func nearestAbove(levels []float64, ref float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l > ref && (!found || l < best) {
			best, found = l, true
		}
	}
	return best, found
}

func nearestBelow(levels []float64, ref float64) (float64, bool) {
	best, found := 0.0, false
	for _, l := range levels {
		if l < ref && (!found || l > best) {
			best, found = l, true
		}
	}
	return best, found
}
