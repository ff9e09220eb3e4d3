package common

// Cache key formats.
const (
	KEY_MARKET_HISTORY = "market_history:%s:%d"
	KEY_SPOT_PRICE     = "spot_price:%s:%s"
	KEY_OVERVIEW       = "prediction_overview:%s"
	KEY_INSIGHT        = "insight:%s"
)

const (
	FIAT_USD = "usd"
)

// Job types understood by the scheduler.
const (
	JOB_YEARLY_PREDICTION = "yearly_prediction"
)

func GetJobTypes() []string {
	return []string{JOB_YEARLY_PREDICTION}
}
