package prediction

// Sentiment is the five-bucket label derived from a sentiment score.
type Sentiment string

const (
	VeryBearish Sentiment = "Very Bearish"
	Bearish     Sentiment = "Bearish"
	Neutral     Sentiment = "Neutral"
	Bullish     Sentiment = "Bullish"
	VeryBullish Sentiment = "Very Bullish"
)

// SentimentResult is a 0-100 score with its label.
type SentimentResult struct {
	Score float64   `json:"score"`
	Label Sentiment `json:"label"`
}

const (
	neutralScore = 50.0

	rsiOverbought = 70.0
	rsiOversold   = 30.0
	rsiExtremeAdj = 20.0

	macdScale    = 100.0
	macdMaxAdj   = 15.0
	priceScale   = 2.0
	priceMaxAdj  = 10.0
	volumeScale  = 20.0
	volumeMaxAdj = 5.0
)

// Score blends RSI, the MACD histogram and the 24h price and volume changes
// (as fractions) into a sentiment score.
func Score(rsi, macdHistogram, priceChange24h, volumeChange24h float64) SentimentResult {
	score := neutralScore

	switch {
	case rsi > rsiOverbought:
		score -= rsiExtremeAdj
	case rsi < rsiOversold:
		score += rsiExtremeAdj
	default:
		score += (rsi - 50) / 20 * 10
	}

	score += clamp(macdHistogram*macdScale, -macdMaxAdj, macdMaxAdj)
	score += clamp(priceChange24h*priceScale, -priceMaxAdj, priceMaxAdj)
	score += clamp(volumeChange24h/volumeScale, -volumeMaxAdj, volumeMaxAdj)

	score = clamp(score, 0, 100)
	return SentimentResult{Score: score, Label: LabelFor(score)}
}

// LabelFor maps a score onto its sentiment bucket.
func LabelFor(score float64) Sentiment {
	switch {
	case score >= 75:
		return VeryBullish
	case score >= 60:
		return Bullish
	case score >= 40:
		return Neutral
	case score >= 25:
		return Bearish
	default:
		return VeryBearish
	}
}
