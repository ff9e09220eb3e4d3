package indicator

// MACDResult holds the MACD line, its signal line and the histogram between them.
type MACDResult struct {
	MACD      Series `json:"macd"`
	Signal    Series `json:"signal"`
	Histogram Series `json:"histogram"`
}

// MACD computes the moving average convergence divergence of prices.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)

	line := make([]float64, len(prices))
	macd := newSeries(len(prices))
	for i := range prices {
		line[i] = fastEMA[i].V - slowEMA[i].V
		macd[i] = Some(line[i])
	}

	signalLine := EMA(line, signal)
	histogram := newSeries(len(prices))
	for i := range prices {
		histogram[i] = Some(line[i] - signalLine[i].V)
	}

	return MACDResult{
		MACD:      macd,
		Signal:    signalLine,
		Histogram: histogram,
	}
}
