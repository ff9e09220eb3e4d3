package indicator

// SupportResistance scans every index with period neighbours on each side and
// reports the price when it is the lowest (support) or highest (resistance)
// value of the surrounding window. Overlapping windows may report the same
// price more than once.
func SupportResistance(prices []float64, period int) (supports, resistances []float64) {
	if period <= 0 {
		return nil, nil
	}
	for i := period; i < len(prices)-period; i++ {
		window := prices[i-period : i+period]
		lo, hi := window[0], window[0]
		for _, p := range window[1:] {
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
		if prices[i] == lo {
			supports = append(supports, prices[i])
		}
		if prices[i] == hi {
			resistances = append(resistances, prices[i])
		}
	}
	return supports, resistances
}
