// Package indicator computes technical-analysis indicators over a price series.
//
// Every function is pure and tolerates short input: readings that need more
// history than is available are reported as undefined values instead of
// failing.
package indicator

// Options configures the lookback windows used by Compute.
type Options struct {
	SMAPeriod        int
	RSIPeriod        int
	MACDFast         int
	MACDSlow         int
	MACDSignal       int
	BollingerPeriod  int
	BollingerStdDevs float64
	LevelPeriod      int
	VolatilityPeriod int
}

// DefaultOptions are the windows used by the coin detail views.
var DefaultOptions = Options{
	SMAPeriod:        20,
	RSIPeriod:        14,
	MACDFast:         12,
	MACDSlow:         26,
	MACDSignal:       9,
	BollingerPeriod:  20,
	BollingerStdDevs: 2,
	LevelPeriod:      20,
	VolatilityPeriod: 20,
}

// Set is every indicator computed for one price series.
type Set struct {
	SMA         Series         `json:"sma"`
	RSI         Series         `json:"rsi"`
	MACD        MACDResult     `json:"macd"`
	Bollinger   BollingerBands `json:"bollinger"`
	Supports    []float64      `json:"support_levels"`
	Resistances []float64      `json:"resistance_levels"`
	Volatility  float64        `json:"volatility"`
}

// Compute builds the full indicator set for prices.
func Compute(prices []float64, opts Options) Set {
	supports, resistances := SupportResistance(prices, opts.LevelPeriod)
	return Set{
		SMA:         SMA(prices, opts.SMAPeriod),
		RSI:         RSI(prices, opts.RSIPeriod),
		MACD:        MACD(prices, opts.MACDFast, opts.MACDSlow, opts.MACDSignal),
		Bollinger:   Bollinger(prices, opts.BollingerPeriod, opts.BollingerStdDevs),
		Supports:    supports,
		Resistances: resistances,
		Volatility:  Volatility(prices, opts.VolatilityPeriod),
	}
}
