package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/indicator"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightRepository_Disabled(t *testing.T) {
	repo, err := NewInsightRepository(context.Background(), nil, config.Gemini{}, logger.NewNop())
	require.NoError(t, err)

	_, err = repo.Describe(context.Background(), model.Token{Slug: "bitcoin"}, dto.CoinOverview{})
	assert.ErrorIs(t, err, ErrInsightDisabled)
}

func TestBuildInsightPrompt(t *testing.T) {
	token := model.Token{Slug: "bitcoin", Symbol: "btc", Name: "Bitcoin"}
	overview := dto.CoinOverview{
		CurrentPrice: 65000,
		Sentiment:    prediction.SentimentResult{Score: 62.5, Label: prediction.Bullish},
		Latest: dto.IndicatorSnapshot{
			RSI:        indicator.Some(58.123),
			Volatility: 0.55,
		},
		Supports: []float64{60000},
		Horizons: prediction.Buckets{
			prediction.Horizon1Year:  {Price: 90000, MinPrice: 70000, MaxPrice: 120000, Confidence: 70},
			prediction.Horizon3Day:   {Price: 66000, MinPrice: 64000, MaxPrice: 68000, Confidence: 88},
			prediction.Horizon1Month: {Price: 70000, MinPrice: 65000, MaxPrice: 75000, Confidence: 80},
		},
	}

	prompt := buildInsightPrompt(token, overview)

	assert.Contains(t, prompt, "Bitcoin (BTC)")
	assert.Contains(t, prompt, "Bullish (score 62.5/100)")
	assert.Contains(t, prompt, "RSI: 58.12")
	assert.Contains(t, prompt, "MACD histogram: n/a")
	assert.Contains(t, prompt, "Support levels: [60000]")
	assert.NotContains(t, prompt, "Resistance levels")

	i3d := strings.Index(prompt, "- 3d:")
	i1m := strings.Index(prompt, "- 1m:")
	i1y := strings.Index(prompt, "- 1y:")
	assert.True(t, i3d >= 0 && i3d < i1m && i1m < i1y, "horizons should be listed nearest first")
}
