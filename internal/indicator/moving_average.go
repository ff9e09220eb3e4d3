package indicator

// SMA returns the simple moving average over the trailing period values.
// Indices before period-1 are undefined.
func SMA(prices []float64, period int) Series {
	out := newSeries(len(prices))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(prices); i++ {
		out[i] = Some(mean(prices[i-period+1 : i+1]))
	}
	return out
}

// EMA returns the exponential moving average with smoothing 2/(period+1).
// The average is seeded with the first price rather than an initial SMA, so
// every index is defined.
func EMA(prices []float64, period int) Series {
	out := newSeries(len(prices))
	if len(prices) == 0 || period <= 0 {
		return out
	}
	k := 2 / (float64(period) + 1)
	prev := prices[0]
	out[0] = Some(prev)
	for i := 1; i < len(prices); i++ {
		prev = prices[i]*k + prev*(1-k)
		out[i] = Some(prev)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
