package prediction

import "math"

// Bias holds the constants that skew the sentiment inputs towards a bullish
// reading before scoring. DefaultBias reproduces the coin pages.
type Bias struct {
	RSIBoost          float64
	RSICap            float64
	HistogramFloor    float64
	SevereHistogram   float64
	SeverePriceChange float64
	PriceChangeSkew   float64
	VolumeChangeSkew  float64
}

const (
	severeHistogram   = -0.3
	severePriceChange = -0.15
)

// DefaultBias is the skew used by the coin pages.
var DefaultBias = Bias{
	RSIBoost:          15,
	RSICap:            75,
	HistogramFloor:    0.05,
	SevereHistogram:   severeHistogram,
	SeverePriceChange: severePriceChange,
	PriceChangeSkew:   0.25,
	VolumeChangeSkew:  0.375,
}

// NoBias leaves the sentiment inputs untouched.
var NoBias = Bias{
	SevereHistogram:   math.Inf(-1),
	SeverePriceChange: math.Inf(-1),
	RSICap:            math.Inf(1),
	HistogramFloor:    math.Inf(-1),
}

// signals are the scalar inputs to the sentiment scorer.
type signals struct {
	rsi          float64
	histogram    float64
	priceChange  float64
	volumeChange float64
}

// biasRule adjusts one signal when its predicate holds for the raw signals.
type biasRule struct {
	name    string
	applies func(b Bias, raw signals) bool
	adjust  func(b Bias, raw signals, out *signals)
}

// biasRules run in order; predicates always look at the unadjusted signals.
var biasRules = []biasRule{
	{
		name: "rsi boost",
		applies: func(b Bias, raw signals) bool {
			return raw.histogram >= b.SevereHistogram && raw.priceChange >= b.SeverePriceChange
		},
		adjust: func(b Bias, raw signals, out *signals) {
			out.rsi = math.Min(raw.rsi+b.RSIBoost, b.RSICap)
		},
	},
	{
		name: "histogram floor",
		applies: func(b Bias, raw signals) bool {
			return raw.histogram >= b.SevereHistogram
		},
		adjust: func(b Bias, raw signals, out *signals) {
			out.histogram = math.Max(raw.histogram, b.HistogramFloor)
		},
	},
	{
		name: "price change skew",
		applies: func(b Bias, raw signals) bool {
			return raw.priceChange >= b.SeverePriceChange
		},
		adjust: func(b Bias, raw signals, out *signals) {
			out.priceChange = skew(raw.priceChange, b.PriceChangeSkew)
		},
	},
	{
		name: "volume change skew",
		applies: func(Bias, signals) bool {
			return true
		},
		adjust: func(b Bias, raw signals, out *signals) {
			out.volumeChange = skew(raw.volumeChange, b.VolumeChangeSkew)
		},
	},
}

// apply returns the skewed copy of raw.
func (b Bias) apply(raw signals) signals {
	out := raw
	for _, rule := range biasRules {
		if rule.applies(b, raw) {
			rule.adjust(b, raw, &out)
		}
	}
	return out
}

// skew moves v upward by fraction of its magnitude.
func skew(v, fraction float64) float64 {
	return v + math.Abs(v)*fraction
}

const longHorizonYears = 2.0

// horizonModel projects a price for a target days away.
type horizonModel func(p *Predictor, a analysis, currentPrice float64, days int) Result

type horizonRule struct {
	name  string
	match func(years float64) bool
	model horizonModel
}

// horizonRules are checked in order; the last rule always matches.
var horizonRules = []horizonRule{
	{
		name:  "long",
		match: func(years float64) bool { return years > longHorizonYears },
		model: (*Predictor).predictLong,
	},
	{
		name:  "short",
		match: func(float64) bool { return true },
		model: (*Predictor).predictShort,
	},
}

// modelFor picks the projection model for a target days away.
func modelFor(days int) horizonRule {
	years := float64(days) / daysPerYear
	for _, rule := range horizonRules {
		if rule.match(years) {
			return rule
		}
	}
	return horizonRules[len(horizonRules)-1]
}
