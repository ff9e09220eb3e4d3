package indicator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// walk builds a deterministic, non-trivial price path.
func walk(n int) []float64 {
	prices := make([]float64, n)
	p := 100.0
	for i := range prices {
		p *= 1 + 0.03*math.Sin(float64(i)*0.7) + 0.01*math.Cos(float64(i)*1.3)
		prices[i] = p
	}
	return prices
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		want   Series
	}{
		{
			name:   "period 3",
			prices: []float64{1, 2, 3, 4, 5},
			period: 3,
			want:   Series{{}, {}, Some(2), Some(3), Some(4)},
		},
		{
			name:   "shorter than period",
			prices: []float64{1, 2, 3},
			period: 5,
			want:   Series{{}, {}, {}},
		},
		{
			name:   "empty",
			prices: nil,
			period: 3,
			want:   Series{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.prices, tt.period)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Valid, got[i].Valid, "index %d", i)
				assert.InDelta(t, tt.want[i].V, got[i].V, tolerance, "index %d", i)
			}
		})
	}
}

func TestSMA_WarmUpAndTrailingMean(t *testing.T) {
	prices := walk(50)
	for _, period := range []int{1, 5, 20} {
		got := SMA(prices, period)
		for i := range prices {
			if i < period-1 {
				assert.False(t, got[i].Valid, "period %d index %d should be undefined", period, i)
				continue
			}
			require.True(t, got[i].Valid, "period %d index %d should be defined", period, i)
			assert.InDelta(t, mean(prices[i-period+1:i+1]), got[i].V, tolerance)
		}
	}
}

func TestSMA_MatchesTalib(t *testing.T) {
	prices := walk(80)
	want := talib.Sma(prices, 20)
	got := SMA(prices, 20)
	for i := 19; i < len(prices); i++ {
		assert.InDelta(t, want[i], got[i].V, 1e-6, "index %d", i)
	}
}

func TestRSI(t *testing.T) {
	t.Run("hand calculated", func(t *testing.T) {
		got := RSI([]float64{10, 12, 11, 13}, 2)
		assert.False(t, got[0].Valid)
		assert.False(t, got[1].Valid)
		assert.InDelta(t, 100-100.0/3, got[2].V, tolerance)
		assert.InDelta(t, 100-100.0/3, got[3].V, tolerance)
	})

	t.Run("no losses reads 100", func(t *testing.T) {
		got := RSI([]float64{1, 2, 3, 4, 5}, 3)
		assert.Equal(t, Some(100), got[3])
		assert.Equal(t, Some(100), got[4])
	})

	t.Run("only losses reads 0", func(t *testing.T) {
		got := RSI([]float64{5, 4, 3, 2}, 3)
		assert.InDelta(t, 0, got[3].V, tolerance)
	})

	t.Run("bounded", func(t *testing.T) {
		prices := walk(200)
		for i, v := range RSI(prices, 14) {
			if i < 14 {
				assert.False(t, v.Valid)
				continue
			}
			assert.True(t, v.Valid)
			assert.GreaterOrEqual(t, v.V, 0.0)
			assert.LessOrEqual(t, v.V, 100.0)
		}
	})
}

func TestEMA_SeededWithFirstPrice(t *testing.T) {
	got := EMA([]float64{1, 2, 3}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, Some(1), got[0])
	assert.InDelta(t, 1.5, got[1].V, tolerance)
	assert.InDelta(t, 2.25, got[2].V, tolerance)
}

func TestMACD(t *testing.T) {
	prices := walk(60)
	got := MACD(prices, 12, 26, 9)
	require.Len(t, got.MACD, len(prices))

	fast := EMA(prices, 12)
	slow := EMA(prices, 26)
	for i := range prices {
		assert.True(t, got.MACD[i].Valid)
		assert.True(t, got.Signal[i].Valid)
		assert.True(t, got.Histogram[i].Valid)
		assert.InDelta(t, fast[i].V-slow[i].V, got.MACD[i].V, tolerance)
		assert.InDelta(t, got.MACD[i].V-got.Signal[i].V, got.Histogram[i].V, tolerance)
	}
	// both averages start from the same seed
	assert.Equal(t, 0.0, got.MACD[0].V)
}

func TestBollinger(t *testing.T) {
	t.Run("hand calculated", func(t *testing.T) {
		got := Bollinger([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 2)
		assert.InDelta(t, 5, got.Middle[7].V, tolerance)
		assert.InDelta(t, 9, got.Upper[7].V, tolerance)
		assert.InDelta(t, 1, got.Lower[7].V, tolerance)
		assert.False(t, got.Upper[6].Valid)
	})

	t.Run("flat prices collapse the bands", func(t *testing.T) {
		got := Bollinger([]float64{3, 3, 3, 3}, 2, 2)
		for i := 1; i < 4; i++ {
			assert.Equal(t, got.Middle[i], got.Upper[i])
			assert.Equal(t, got.Middle[i], got.Lower[i])
		}
	})

	t.Run("containment", func(t *testing.T) {
		got := Bollinger(walk(120), 20, 2)
		for i := range got.Middle {
			if !got.Middle[i].Valid {
				assert.False(t, got.Upper[i].Valid)
				assert.False(t, got.Lower[i].Valid)
				continue
			}
			assert.LessOrEqual(t, got.Lower[i].V, got.Middle[i].V)
			assert.LessOrEqual(t, got.Middle[i].V, got.Upper[i].V)
		}
	})

	t.Run("matches talib", func(t *testing.T) {
		prices := walk(80)
		upper, middle, lower := talib.BBands(prices, 20, 2, 2, talib.SMA)
		got := Bollinger(prices, 20, 2)
		for i := 19; i < len(prices); i++ {
			assert.InDelta(t, upper[i], got.Upper[i].V, 1e-6, "upper %d", i)
			assert.InDelta(t, middle[i], got.Middle[i].V, 1e-6, "middle %d", i)
			assert.InDelta(t, lower[i], got.Lower[i].V, 1e-6, "lower %d", i)
		}
	})
}

func TestSupportResistance(t *testing.T) {
	supports, resistances := SupportResistance([]float64{5, 4, 3, 4, 5, 6, 7, 6, 5}, 2)
	assert.Equal(t, []float64{3}, supports)
	assert.Equal(t, []float64{7}, resistances)

	supports, resistances = SupportResistance([]float64{1, 2, 3}, 20)
	assert.Empty(t, supports)
	assert.Empty(t, resistances)
}

func TestSupportResistance_KeepsDuplicates(t *testing.T) {
	prices := []float64{2, 2, 2, 2, 2, 2}
	supports, resistances := SupportResistance(prices, 2)
	assert.Equal(t, []float64{2, 2}, supports)
	assert.Equal(t, []float64{2, 2}, resistances)
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, Volatility(nil, 20))
	assert.Equal(t, 0.0, Volatility([]float64{10}, 20))
	assert.InDelta(t, 0, Volatility([]float64{5, 5, 5, 5}, 20), tolerance)
	assert.InDelta(t, 0.1*math.Sqrt(252), Volatility([]float64{100, 110, 99}, 20), 1e-9)
	assert.Equal(t, 0.0, Volatility([]float64{0, 0}, 20))
}

func TestCompute_ShortAndEmptyInput(t *testing.T) {
	assert.NotPanics(t, func() {
		set := Compute(nil, DefaultOptions)
		assert.Empty(t, set.SMA)
		assert.Empty(t, set.RSI)
		assert.Equal(t, 0.0, set.Volatility)
	})

	set := Compute([]float64{1, 2, 3}, DefaultOptions)
	assert.Len(t, set.SMA, 3)
	assert.False(t, set.RSI.Last().Valid)
	assert.True(t, set.MACD.Histogram.Last().Valid)
}

func TestValue_JSON(t *testing.T) {
	b, err := json.Marshal(Series{{}, Some(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `[null, 1.5]`, string(b))

	var s Series
	require.NoError(t, json.Unmarshal([]byte(`[null, 2]`), &s))
	assert.Equal(t, Series{{}, Some(2)}, s)
}

func TestSeries_Helpers(t *testing.T) {
	s := Series{Some(1), {}, Some(3), {}}
	assert.Equal(t, Some(3), s.Last())
	assert.Equal(t, Value{}, s.At(10))
	assert.Equal(t, []float64{1, 3}, s.Floats())
	assert.Equal(t, 7.0, s.At(1).Or(7))
}
