package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	type args struct {
		rsi, histogram, priceChange, volumeChange float64
	}
	tests := []struct {
		name      string
		args      args
		wantScore float64
		wantLabel Sentiment
	}{
		{name: "neutral baseline", args: args{50, 0, 0, 0}, wantScore: 50, wantLabel: Neutral},
		{name: "overbought", args: args{80, 0, 0, 0}, wantScore: 30, wantLabel: Bearish},
		{name: "oversold", args: args{20, 0, 0, 0}, wantScore: 70, wantLabel: Bullish},
		{name: "rsi at oversold edge is linear", args: args{30, 0, 0, 0}, wantScore: 40, wantLabel: Neutral},
		{name: "rsi at overbought edge is linear", args: args{70, 0, 0, 0}, wantScore: 60, wantLabel: Bullish},
		{name: "macd contribution", args: args{60, 0.1, 0, 0}, wantScore: 65, wantLabel: Bullish},
		{name: "price and volume terms", args: args{50, 0, 0.5, 20}, wantScore: 52, wantLabel: Neutral},
		{name: "all bullish clamps at 100", args: args{20, 1, 10, 1000}, wantScore: 100, wantLabel: VeryBullish},
		{name: "all bearish clamps at 0", args: args{80, -1, -10, -1000}, wantScore: 0, wantLabel: VeryBearish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.args.rsi, tt.args.histogram, tt.args.priceChange, tt.args.volumeChange)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Sentiment
	}{
		{100, VeryBullish},
		{75, VeryBullish},
		{74.99, Bullish},
		{60, Bullish},
		{59.99, Neutral},
		{40, Neutral},
		{39.99, Bearish},
		{25, Bearish},
		{24.99, VeryBearish},
		{0, VeryBearish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.score), "score %v", tt.score)
	}
}

func TestScore_MonotonicInHistogram(t *testing.T) {
	for _, rsi := range []float64{10, 45, 55, 90} {
		prev := -1.0
		for h := -1.0; h <= 1.0; h += 0.005 {
			got := Score(rsi, h, 0.01, 5).Score
			assert.GreaterOrEqual(t, got, prev, "rsi %v histogram %v", rsi, h)
			prev = got
		}
	}
}

func TestScore_Bounded(t *testing.T) {
	for _, rsi := range []float64{0, 29, 50, 71, 100} {
		for _, h := range []float64{-5, 0, 5} {
			for _, pc := range []float64{-1, 0, 1} {
				got := Score(rsi, h, pc, pc*1000)
				assert.GreaterOrEqual(t, got.Score, 0.0)
				assert.LessOrEqual(t, got.Score, 100.0)
			}
		}
	}
}
