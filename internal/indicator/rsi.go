package indicator

// RSI returns the relative strength index using the average gain and average
// loss over the period price changes ending at each index. Indices before
// period are undefined. A window without losses reads exactly 100.
func RSI(prices []float64, period int) Series {
	out := newSeries(len(prices))
	if period <= 0 {
		return out
	}
	for i := period; i < len(prices); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			change := prices[j] - prices[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		if avgLoss == 0 {
			out[i] = Some(100)
			continue
		}
		rs := avgGain / avgLoss
		out[i] = Some(100 - 100/(1+rs))
	}
	return out
}
