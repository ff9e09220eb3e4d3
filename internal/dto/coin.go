package dto

import (
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/indicator"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
)

type CoinPathParam struct {
	Slug string `param:"slug" validate:"required,max=100"`
}

type IndicatorsRequest struct {
	Slug string `param:"slug" validate:"required,max=100"`
	Days int    `query:"days" validate:"omitempty,min=2,max=365"`
}

// IndicatorSnapshot holds the latest value of each indicator.
type IndicatorSnapshot struct {
	SMA             indicator.Value `json:"sma"`
	RSI             indicator.Value `json:"rsi"`
	MACD            indicator.Value `json:"macd"`
	MACDSignal      indicator.Value `json:"macd_signal"`
	MACDHistogram   indicator.Value `json:"macd_histogram"`
	BollingerUpper  indicator.Value `json:"bollinger_upper"`
	BollingerMiddle indicator.Value `json:"bollinger_middle"`
	BollingerLower  indicator.Value `json:"bollinger_lower"`
	Volatility      float64         `json:"volatility"`
}

func NewIndicatorSnapshot(set indicator.Set) IndicatorSnapshot {
	return IndicatorSnapshot{
		SMA:             set.SMA.Last(),
		RSI:             set.RSI.Last(),
		MACD:            set.MACD.MACD.Last(),
		MACDSignal:      set.MACD.Signal.Last(),
		MACDHistogram:   set.MACD.Histogram.Last(),
		BollingerUpper:  set.Bollinger.Upper.Last(),
		BollingerMiddle: set.Bollinger.Middle.Last(),
		BollingerLower:  set.Bollinger.Lower.Last(),
		Volatility:      set.Volatility,
	}
}

type IndicatorsResponse struct {
	Slug      string                     `json:"slug"`
	Days      int                        `json:"days"`
	Latest    IndicatorSnapshot          `json:"latest"`
	Series    indicator.Set              `json:"series"`
	Sentiment prediction.SentimentResult `json:"sentiment"`
}

// CoinOverview is the prediction summary shown on a coin page.
type CoinOverview struct {
	Slug         string                     `json:"slug"`
	Symbol       string                     `json:"symbol"`
	Name         string                     `json:"name"`
	CurrentPrice float64                    `json:"current_price"`
	Sentiment    prediction.SentimentResult `json:"sentiment"`
	Latest       IndicatorSnapshot          `json:"indicators"`
	Supports     []float64                  `json:"support_levels"`
	Resistances  []float64                  `json:"resistance_levels"`
	Horizons     prediction.Buckets         `json:"horizons"`
	GeneratedAt  time.Time                  `json:"generated_at"`
}

type TargetPredictionRequest struct {
	Slug string `param:"slug" validate:"required,max=100"`
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

type TargetPrediction struct {
	Slug         string            `json:"slug"`
	TargetDate   string            `json:"target_date"`
	CurrentPrice float64           `json:"current_price"`
	Prediction   prediction.Result `json:"prediction"`
}

type YearlyRequest struct {
	Slug string `param:"slug" validate:"required,max=100"`
	From int    `query:"from" validate:"omitempty,min=2000,max=2100"`
	To   int    `query:"to" validate:"omitempty,min=2000,max=2100,gtefield=From"`
}

type YearlyResponse struct {
	Slug         string                 `json:"slug"`
	CurrentPrice float64                `json:"current_price"`
	Stored       bool                   `json:"stored"`
	Years        prediction.YearlyTable `json:"years"`
}

type InvestmentRequest struct {
	Slug       string  `param:"slug" json:"-" validate:"required,max=100"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	TargetDate string  `json:"target_date" validate:"required,datetime=2006-01-02"`
}

type InvestmentResponse struct {
	Slug           string  `json:"slug"`
	Amount         float64 `json:"amount"`
	TargetDate     string  `json:"target_date"`
	CurrentPrice   float64 `json:"current_price"`
	ProjectedPrice float64 `json:"projected_price"`
	ProjectedValue float64 `json:"projected_value"`
	ROI            float64 `json:"roi"`
	Source         string  `json:"source"`
}

// LiveTick is pushed to websocket subscribers of a coin.
type LiveTick struct {
	Slug      string                     `json:"slug"`
	Price     float64                    `json:"price"`
	Sentiment prediction.SentimentResult `json:"sentiment"`
	Timestamp time.Time                  `json:"ts"`
}

type InsightResponse struct {
	Slug      string    `json:"slug"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
