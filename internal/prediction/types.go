// Package prediction turns a coin's price history into heuristic price
// projections: a sentiment score, per-date price predictions with a min/max
// band, multi-year monthly tables, and investment projections.
//
// The projections are optimistic by construction and carry no statistical
// meaning. Their contract is that every output is bounded and internally
// consistent.
package prediction

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrInvalidInput is returned with a zero result when the current price,
	// amount or target date cannot produce a projection.
	ErrInvalidInput = errors.New("prediction: invalid input")
	// ErrNoPrediction is returned when neither a horizon bucket nor the yearly
	// table can serve a target date.
	ErrNoPrediction = errors.New("prediction: no prediction available for target date")
)

const daysPerYear = 365

// PricePoint is one sample of a coin's market history.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
}

// Input is the history a prediction is derived from. Prices and Volumes are
// chronological and aligned by index.
type Input struct {
	Prices       []float64
	Volumes      []float64
	CurrentPrice float64
}

// InputFromHistory splits history into aligned price and volume series.
func InputFromHistory(history []PricePoint, currentPrice float64) Input {
	in := Input{
		Prices:       make([]float64, len(history)),
		Volumes:      make([]float64, len(history)),
		CurrentPrice: currentPrice,
	}
	for i, p := range history {
		in.Prices[i] = p.Price
		in.Volumes[i] = p.Volume
	}
	return in
}

// Result is a single price prediction.
type Result struct {
	Price      float64   `json:"price"`
	MinPrice   float64   `json:"min_price"`
	MaxPrice   float64   `json:"max_price"`
	ROI        float64   `json:"roi"`
	Confidence float64   `json:"confidence"`
	Sentiment  Sentiment `json:"sentiment"`
}

// newResult enforces the band and confidence bounds and derives ROI from the
// final price.
func newResult(price, minPrice, maxPrice, currentPrice, confidence float64, sentiment Sentiment) Result {
	if minPrice > price {
		minPrice = price
	}
	if maxPrice < price {
		maxPrice = price
	}
	return Result{
		Price:      price,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		ROI:        roi(price, currentPrice),
		Confidence: clamp(confidence, 0, 100),
		Sentiment:  sentiment,
	}
}

// MonthlyPrediction is one cell of a multi-year table. Month is zero based.
type MonthlyPrediction struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Result
}

// YearlyTable maps a calendar year to its monthly predictions.
type YearlyTable map[int][]MonthlyPrediction

// Horizon is one of the standard prediction buckets.
type Horizon string

const (
	Horizon3Day   Horizon = "3d"
	Horizon5Day   Horizon = "5d"
	Horizon1Month Horizon = "1m"
	Horizon3Month Horizon = "3m"
	Horizon6Month Horizon = "6m"
	Horizon1Year  Horizon = "1y"
)

// StandardHorizons lists the buckets from nearest to farthest.
var StandardHorizons = []Horizon{
	Horizon3Day,
	Horizon5Day,
	Horizon1Month,
	Horizon3Month,
	Horizon6Month,
	Horizon1Year,
}

// Days is the furthest target, in days, a horizon serves.
func (h Horizon) Days() int {
	switch h {
	case Horizon3Day:
		return 3
	case Horizon5Day:
		return 5
	case Horizon1Month:
		return 30
	case Horizon3Month:
		return 90
	case Horizon6Month:
		return 180
	case Horizon1Year:
		return 365
	default:
		return 0
	}
}

// HorizonFor returns the nearest standard horizon covering days.
func HorizonFor(days int) (Horizon, bool) {
	if days <= 0 {
		return "", false
	}
	for _, h := range StandardHorizons {
		if days <= h.Days() {
			return h, true
		}
	}
	return "", false
}

// Buckets holds a prediction per standard horizon.
type Buckets map[Horizon]Result

// DaysUntil is the number of whole days from now to target, negative when
// target is in the past.
func DaysUntil(now, target time.Time) int {
	return int(math.Floor(target.Sub(now).Hours() / 24))
}

func roi(price, currentPrice float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	return (price - currentPrice) / currentPrice * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
