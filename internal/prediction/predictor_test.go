package prediction

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// scriptedSource replays values in a loop and counts the draws.
type scriptedSource struct {
	values []float64
	draws  int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.draws%len(s.values)]
	s.draws++
	return v
}

func flatInput(n int, price float64) Input {
	in := Input{Prices: make([]float64, n), Volumes: make([]float64, n), CurrentPrice: price}
	for i := range in.Prices {
		in.Prices[i] = price
		in.Volumes[i] = 1000
	}
	return in
}

func randomWalkInput(seed int64, n int, vol float64) Input {
	r := rand.New(rand.NewSource(seed))
	in := Input{Prices: make([]float64, n), Volumes: make([]float64, n)}
	p := 50 + r.Float64()*1000
	for i := 0; i < n; i++ {
		p *= 1 + (r.Float64()*2-1)*vol
		in.Prices[i] = p
		in.Volumes[i] = 1e6 * (0.5 + r.Float64())
	}
	in.CurrentPrice = p
	return in
}

// crashInput is a steady decline ending in a 20% daily drop.
func crashInput() Input {
	var in Input
	for i := 0; i <= 60; i++ {
		in.Prices = append(in.Prices, 200-float64(i)*100/60)
		in.Volumes = append(in.Volumes, 5000)
	}
	in.Prices = append(in.Prices, 80)
	in.Volumes = append(in.Volumes, 9000)
	in.CurrentPrice = 80
	return in
}

func days(n int) time.Time {
	return testNow.Add(time.Duration(n) * 24 * time.Hour)
}

func TestPredict_ShortHorizonFlatHistory(t *testing.T) {
	p := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(1))

	got, err := p.Predict(flatInput(60, 100), days(365))
	require.NoError(t, err)

	// flat prices read RSI 100, capped to 75 by the bias and scored as overbought
	assert.Equal(t, Bearish, got.Sentiment)
	assert.InDelta(t, 148.5, got.Price, 1e-9)
	assert.InDelta(t, 148.5, got.MinPrice, 1e-9)
	assert.InDelta(t, 148.5, got.MaxPrice, 1e-9)
	assert.InDelta(t, 48.5, got.ROI, 1e-9)
	assert.InDelta(t, 90.5, got.Confidence, 1e-9)

	got, err = p.Predict(flatInput(60, 100), days(30))
	require.NoError(t, err)
	assert.InDelta(t, 110*(1+0.35*30.0/365), got.Price, 1e-9)
}

func TestPredict_LongHorizonScripted(t *testing.T) {
	src := &scriptedSource{values: []float64{0.5, 0.99, 0.0}}
	p := NewPredictor(WithClock(fixedClock(testNow)), WithRand(src))

	got, err := p.Predict(flatInput(60, 100), days(3*365))
	require.NoError(t, err)
	assert.Equal(t, 3, src.draws)

	// score 35 -> rate 0.27, three years into the cycle -> 0.7 modulation
	want := 100 * math.Pow(1.27, 3) * 0.7
	assert.InDelta(t, want, got.Price, 1e-6)
	assert.InDelta(t, want*0.7, got.MinPrice, 1e-6)
	assert.InDelta(t, want*1.2, got.MaxPrice, 1e-6)
	assert.InDelta(t, 91, got.Confidence, 1e-9)
}

func TestPredict_LongHorizonBearMarket(t *testing.T) {
	src := &scriptedSource{values: []float64{0.5, 0.1, 0.5}}
	p := NewPredictor(WithClock(fixedClock(testNow)), WithRand(src))

	got, err := p.Predict(flatInput(60, 100), days(3*365))
	require.NoError(t, err)
	assert.InDelta(t, 100*math.Pow(1.27, 3)*0.7*0.75, got.Price, 1e-6)
}

func TestPredict_ShortHorizonDoesNotDraw(t *testing.T) {
	src := &scriptedSource{values: []float64{0.5}}
	p := NewPredictor(WithClock(fixedClock(testNow)), WithRand(src))

	_, err := p.Predict(randomWalkInput(3, 120, 0.04), days(730))
	require.NoError(t, err)
	assert.Equal(t, 0, src.draws, "two years out stays on the short model")

	_, err = p.Predict(randomWalkInput(3, 120, 0.04), days(731))
	require.NoError(t, err)
	assert.Equal(t, 3, src.draws, "two years and a day uses the long model")
}

func TestPredict_SeverelyBearish(t *testing.T) {
	p := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(1))
	in := crashInput()

	a := p.analyze(in)
	require.True(t, a.severelyBearish(), "rsi=%v histogram=%v change=%v", a.raw.rsi, a.raw.histogram, a.raw.priceChange)

	got, err := p.Predict(in, days(30))
	require.NoError(t, err)
	assert.Less(t, got.Price, in.CurrentPrice)
	assert.Less(t, got.ROI, 0.0)
	assert.GreaterOrEqual(t, got.Price, in.CurrentPrice*minPriceFraction)
}

func TestPredict_Invariants(t *testing.T) {
	horizons := []int{1, 2, 3, 5, 10, 30, 90, 180, 365, 500, 730, 731, 1000, 1500, 2000, 3650, 7300, 10950}
	inputs := []Input{flatInput(100, 42), crashInput(), randomWalkInput(7, 10, 0.5)}
	for seed := int64(0); seed < 20; seed++ {
		inputs = append(inputs, randomWalkInput(seed, 30+int(seed)*10, 0.01+float64(seed)*0.02))
	}

	for seed, in := range inputs {
		p := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(int64(seed)))
		for _, d := range horizons {
			got, err := p.Predict(in, days(d))
			require.NoError(t, err)
			assert.Greater(t, got.MinPrice, 0.0, "input %d days %d", seed, d)
			assert.LessOrEqual(t, got.MinPrice, got.Price, "input %d days %d", seed, d)
			assert.LessOrEqual(t, got.Price, got.MaxPrice, "input %d days %d", seed, d)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 100.0)
			assert.InDelta(t, (got.Price-in.CurrentPrice)/in.CurrentPrice*100, got.ROI, 1e-9)
			assert.False(t, math.IsNaN(got.Price) || math.IsInf(got.Price, 0))
		}
	}
}

func TestPredict_DeterministicWithSeed(t *testing.T) {
	in := randomWalkInput(11, 200, 0.05)
	for _, d := range []int{800, 2000, 5000} {
		a := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(99))
		b := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(99))

		ra, err := a.Predict(in, days(d))
		require.NoError(t, err)
		rb, err := b.Predict(in, days(d))
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestPredict_InvalidInput(t *testing.T) {
	p := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(1))
	tests := []struct {
		name   string
		in     Input
		target time.Time
	}{
		{name: "zero current price", in: flatInput(10, 0), target: days(10)},
		{name: "negative current price", in: Input{CurrentPrice: -1}, target: days(10)},
		{name: "misaligned series", in: Input{Prices: []float64{1, 2}, Volumes: []float64{1}, CurrentPrice: 2}, target: days(10)},
		{name: "target is now", in: flatInput(10, 5), target: testNow},
		{name: "target within the day", in: flatInput(10, 5), target: testNow.Add(23 * time.Hour)},
		{name: "target in the past", in: flatInput(10, 5), target: days(-3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Predict(tt.in, tt.target)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, Result{}, got)
		})
	}
}

func TestPredict_EmptyHistoryUsesNeutralSignals(t *testing.T) {
	p := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(1))
	got, err := p.Predict(Input{CurrentPrice: 10}, days(90))
	require.NoError(t, err)
	assert.Greater(t, got.Price, 0.0)
	assert.LessOrEqual(t, got.MinPrice, got.Price)
}

func TestPredictHorizons(t *testing.T) {
	p := NewPredictor(WithClock(fixedClock(testNow)), WithSeed(5))
	in := randomWalkInput(5, 90, 0.03)

	buckets, err := p.PredictHorizons(in)
	require.NoError(t, err)
	require.Len(t, buckets, len(StandardHorizons))
	for _, h := range StandardHorizons {
		want, err := p.Predict(in, days(h.Days()))
		require.NoError(t, err)
		assert.Equal(t, want, buckets[h], "horizon %s", h)
	}

	_, err = p.PredictHorizons(Input{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPredictYearly(t *testing.T) {
	now := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
	p := NewPredictor(WithClock(fixedClock(now)), WithSeed(5))

	table, err := p.PredictYearly(randomWalkInput(8, 90, 0.03), 2025, 2026, 2027, 2030)
	require.NoError(t, err)

	assert.NotContains(t, table, 2025)
	require.Len(t, table[2026], 6)
	assert.Equal(t, 6, table[2026][0].Month)
	assert.Len(t, table[2027], 12)
	assert.Len(t, table[2030], 12)
	for year, months := range table {
		for _, m := range months {
			assert.Equal(t, year, m.Year)
			assert.LessOrEqual(t, m.MinPrice, m.Price)
			assert.LessOrEqual(t, m.Price, m.MaxPrice)
		}
	}
}

func TestAnalyze(t *testing.T) {
	p := NewPredictor(WithSeed(1))
	set, sentiment, err := p.Analyze(randomWalkInput(2, 60, 0.02))
	require.NoError(t, err)
	assert.Len(t, set.RSI, 60)
	assert.NotEmpty(t, sentiment.Label)

	_, _, err = p.Analyze(Input{CurrentPrice: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
