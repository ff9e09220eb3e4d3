package indicator

import "math"

const tradingDaysPerYear = 252

// Volatility returns the annualised standard deviation of simple
// day-over-day returns. The period argument is accepted for call-site symmetry
// with the other indicators but the whole series is used.
func Volatility(prices []float64, _ int) float64 {
	if len(prices) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	if len(returns) == 0 {
		return 0
	}
	return stdDev(returns, mean(returns)) * math.Sqrt(tradingDaysPerYear)
}
