package indicator

import "math"

// BollingerBands holds the bands around a simple moving average.
type BollingerBands struct {
	Upper  Series `json:"upper"`
	Middle Series `json:"middle"`
	Lower  Series `json:"lower"`
}

// Bollinger computes the bands at multiplier population standard deviations
// around the period SMA. Indices before period-1 are undefined.
func Bollinger(prices []float64, period int, multiplier float64) BollingerBands {
	bands := BollingerBands{
		Upper:  newSeries(len(prices)),
		Middle: SMA(prices, period),
		Lower:  newSeries(len(prices)),
	}
	for i, m := range bands.Middle {
		if !m.Valid {
			continue
		}
		sd := stdDev(prices[i-period+1:i+1], m.V)
		bands.Upper[i] = Some(m.V + multiplier*sd)
		bands.Lower[i] = Some(m.V - multiplier*sd)
	}
	return bands
}

// stdDev is the population standard deviation of values around avg.
func stdDev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
